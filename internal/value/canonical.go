package value

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Resource limits (§4.1).
const (
	MaxTextBytes      = 1 * 1024 * 1024
	MaxBytesBytes      = 4 * 1024 * 1024
	MaxFieldNameBytes = 256
	MaxFieldsPerIngest = 256
)

// ValidationError reports a failure to canonicalize or validate a typed
// input, per the "Input validation" error kind in spec.md §7.
type ValidationError struct {
	Field string // what was being validated, e.g. "float value", "field name"
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err.Error())
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field string, format string, args ...any) error {
	return &ValidationError{Field: field, Err: fmt.Errorf(format, args...)}
}

func encodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func trimASCIISpace(s string) string {
	return strings.Trim(s, " \t\r\n")
}

func requireUTF8(s, what string) error {
	if !utf8.ValidString(s) {
		return invalid(what, "invalid UTF-8")
	}
	return nil
}

// canonicalText normalizes text per §4.1: trim outer ASCII whitespace, then
// NFC-normalize. Interior whitespace and case are preserved.
func canonicalText(raw string) (string, error) {
	if err := requireUTF8(raw, "text"); err != nil {
		return "", err
	}
	trimmed := trimASCIISpace(raw)
	return norm.NFC.String(trimmed), nil
}

// NewText canonicalizes a text value, enforcing the §4.1 size limit.
func NewText(raw string) (Value, error) {
	s, err := canonicalText(raw)
	if err != nil {
		return nil, err
	}
	if int64(len(s)) > effective.MaxTextBytes {
		return nil, invalid("text", "canonical text exceeds %d bytes", effective.MaxTextBytes)
	}
	return TextValue(s), nil
}

// NewBoolFromJSON accepts a Go bool decoded from a JSON boolean.
func NewBoolFromJSON(b bool) (Value, error) {
	return BoolValue(b), nil
}

// NewBoolFromText requires exactly "true" or "false" (case-sensitive).
func NewBoolFromText(raw string) (Value, error) {
	s := trimASCIISpace(raw)
	switch s {
	case "true":
		return BoolValue(true), nil
	case "false":
		return BoolValue(false), nil
	default:
		return nil, invalid("bool", "must be exactly %q or %q", "true", "false")
	}
}

// NewIntFromJSON accepts an int64 decoded from a JSON integer.
func NewIntFromJSON(i int64) (Value, error) {
	return IntValue(i), nil
}

// NewIntFromText parses a signed decimal integer. Leading '+' and leading
// zeros are accepted on input (the canonical *output* never has them);
// out-of-range or non-integer input fails (§4.1).
func NewIntFromText(raw string) (Value, error) {
	s := trimASCIISpace(raw)
	if s == "" {
		return nil, invalid("int", "must not be empty")
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, invalid("int", "invalid integer %q", raw)
	}
	return IntValue(i), nil
}

// NewFloatFromJSON accepts a float64 decoded from a JSON number.
func NewFloatFromJSON(f float64) (Value, error) {
	text, err := canonicalizeFloat64(f)
	if err != nil {
		return nil, err
	}
	return FloatValue{text: text}, nil
}

// NewFloatFromText parses "inf", "+inf", "-inf", or any decimal parseable to
// binary64. NaN (by any spelling) is rejected.
func NewFloatFromText(raw string) (Value, error) {
	s := trimASCIISpace(raw)
	switch s {
	case "inf", "+inf":
		return FloatValue{text: "inf"}, nil
	case "-inf":
		return FloatValue{text: "-inf"}, nil
	case "nan", "NaN", "NAN", "+nan", "-nan":
		return nil, invalid("float", "NaN is not allowed")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, invalid("float", "invalid float %q", raw)
	}
	text, err := canonicalizeFloat64(f)
	if err != nil {
		return nil, err
	}
	return FloatValue{text: text}, nil
}

// canonicalizeFloat64 implements the §4.1 float canonicalization rule:
// NaN rejected; +/-inf canonicalize to "inf"/"-inf"; +/-0 collapse to "0";
// otherwise the shortest round-tripping decimal, lower-case exponent marker,
// trailing mantissa zeros (and a bare trailing dot) stripped.
func canonicalizeFloat64(d float64) (string, error) {
	if math.IsNaN(d) {
		return "", invalid("float", "NaN is not allowed")
	}
	if math.IsInf(d, 1) {
		return "inf", nil
	}
	if math.IsInf(d, -1) {
		return "-inf", nil
	}
	if d == 0 {
		return "0", nil
	}

	s := strconv.FormatFloat(d, 'g', -1, 64)

	mant, exp, hasExp := strings.Cut(s, "e")
	if !hasExp {
		mant, exp, hasExp = strings.Cut(s, "E")
	}
	if hasExp {
		exp = "e" + exp
	}

	if dot := strings.IndexByte(mant, '.'); dot >= 0 {
		mant = strings.TrimRight(mant, "0")
		mant = strings.TrimSuffix(mant, ".")
	}

	out := mant + exp
	if out == "-0" {
		out = "0"
	}
	return out, nil
}

// NewUUIDFromText validates and lowercases a 36-character hyphenated UUID
// shape (§4.1). RFC 4122 version/variant bits are not checked — only the
// hyphen positions and hex-digit shape, matching the reference
// implementation. Parsing itself is delegated to google/uuid; the length
// check up front keeps us from accepting the library's more permissive
// forms (no hyphens, "urn:uuid:" prefix, braces).
func NewUUIDFromText(raw string) (Value, error) {
	if err := requireUTF8(raw, "uuid"); err != nil {
		return nil, err
	}
	s := trimASCIISpace(raw)
	if len(s) != 36 {
		return nil, invalid("uuid", "must be 36 characters")
	}
	for _, i := range []int{8, 13, 18, 23} {
		if s[i] != '-' {
			return nil, invalid("uuid", "invalid uuid format")
		}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, invalid("uuid", "invalid uuid format")
	}
	return UUIDValue(id.String()), nil
}

// NewBytesFromBase64 decodes whitespace-tolerant base64 text into the
// canonical raw octet string, enforcing the §4.1 size limit.
func NewBytesFromBase64(raw string) (Value, error) {
	if err := requireUTF8(raw, "bytes"); err != nil {
		return nil, err
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch r {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			b.WriteRune(r)
		}
	}
	decoded, err := base64.StdEncoding.DecodeString(b.String())
	if err != nil {
		return nil, invalid("bytes", "invalid base64: %v", err)
	}
	if int64(len(decoded)) > effective.MaxBytesBytes {
		return nil, invalid("bytes", "canonical bytes exceed %d bytes", effective.MaxBytesBytes)
	}
	return BytesValue(decoded), nil
}

// NewNull is the single canonical null value.
func NewNull() (Value, error) { return NullValue{}, nil }

// CanonicalFieldName trims and NFC-normalizes a field name and enforces the
// §3/§4.1 length limit.
func CanonicalFieldName(raw string) (string, error) {
	if err := requireUTF8(raw, "field name"); err != nil {
		return "", err
	}
	name := norm.NFC.String(trimASCIISpace(raw))
	if len(name) == 0 {
		return "", invalid("field name", "must not be empty")
	}
	if int64(len(name)) > effective.MaxFieldNameBytes {
		return "", invalid("field name", "exceeds %d bytes", effective.MaxFieldNameBytes)
	}
	return name, nil
}
