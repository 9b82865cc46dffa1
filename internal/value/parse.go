package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FromJSON canonicalizes a typed-JSON-shaped input (§6.2): the NDJSON
// fields.<name> object carries "t" (already resolved to t here) and "v" in
// the shape the type requires. raw is nil for null (v is omitted).
func FromJSON(t Type, raw json.RawMessage) (Value, error) {
	if !t.IsInputAllowed() {
		return nil, invalid(t.String(), "type %s is reserved and rejects as input", t)
	}

	switch t {
	case Null:
		return NewNull()
	case Bool:
		var b bool
		if err := strictUnmarshal(raw, &b); err != nil {
			return nil, invalid("bool", "value must be a JSON boolean: %v", err)
		}
		return NewBoolFromJSON(b)
	case Int:
		n, err := jsonInteger(raw)
		if err != nil {
			return nil, invalid("int", "%v", err)
		}
		return NewIntFromJSON(n)
	case Float:
		var f float64
		if err := strictUnmarshal(raw, &f); err != nil {
			return nil, invalid("float", "value must be a JSON number: %v", err)
		}
		return NewFloatFromJSON(f)
	case Text:
		var s string
		if err := strictUnmarshal(raw, &s); err != nil {
			return nil, invalid("text", "value must be a JSON string: %v", err)
		}
		return NewText(s)
	case UUID:
		var s string
		if err := strictUnmarshal(raw, &s); err != nil {
			return nil, invalid("uuid", "value must be a JSON string: %v", err)
		}
		return NewUUIDFromText(s)
	case Bytes:
		var s string
		if err := strictUnmarshal(raw, &s); err != nil {
			return nil, invalid("bytes", "value must be a base64 JSON string: %v", err)
		}
		return NewBytesFromBase64(s)
	default:
		return nil, invalid(t.String(), "unsupported type")
	}
}

func strictUnmarshal(raw json.RawMessage, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

// jsonInteger requires raw to decode as a JSON number with no fractional or
// exponent part, then parses it as int64 (§4.1: "non-integer input fails").
func jsonInteger(raw json.RawMessage) (int64, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return 0, fmt.Errorf("value must be a JSON integer: %w", err)
	}
	s := string(n)
	if strings.ContainsAny(s, ".eE") {
		return 0, fmt.Errorf("value must be a JSON integer, got %s", s)
	}
	return n.Int64()
}

// FromText canonicalizes the textual "type:value" form (§6.3). raw is the
// entire value string after the first ':' — whitespace inside is preserved
// except where a given type's canonicalization trims it.
func FromText(t Type, raw string) (Value, error) {
	if !t.IsInputAllowed() {
		return nil, invalid(t.String(), "type %s is reserved and rejects as input", t)
	}

	switch t {
	case Null:
		return NewNull()
	case Bool:
		return NewBoolFromText(raw)
	case Int:
		return NewIntFromText(raw)
	case Float:
		return NewFloatFromText(raw)
	case Text:
		return NewText(raw)
	case UUID:
		return NewUUIDFromText(raw)
	case Bytes:
		return NewBytesFromBase64(raw)
	default:
		return nil, invalid(t.String(), "unsupported type")
	}
}
