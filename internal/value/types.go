// Package value implements Felix's closed logical type set (§3, §4.1):
// null, bool, int, float, text, bytes, uuid, and the reserved json tag.
//
// A Value is a sealed tagged union, mirroring the teacher lineage's sum-type
// dispatch for its IR value types: every concrete value type implements the
// same small interface so hashing, storage binding, and display never
// switch on a type-name string at a hot path (§9, "tagged variants").
package value

import "fmt"

// Type identifies a logical type in the closed v0.3 type set.
type Type uint8

const (
	Null Type = iota
	Bool
	Int
	Float
	Text
	Bytes
	UUID
	// JSON is reserved tag space (§3). It is never a valid input type.
	JSON
)

func (t Type) String() string {
	switch t {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Text:
		return "text"
	case Bytes:
		return "bytes"
	case UUID:
		return "uuid"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// ParseType resolves a type name from NDJSON's "t" field or the textual
// "type:value" form. "json" parses successfully (it is a known name) but
// callers that reject reserved types must check IsInputAllowed.
func ParseType(s string) (Type, error) {
	switch s {
	case "null":
		return Null, nil
	case "bool":
		return Bool, nil
	case "int":
		return Int, nil
	case "float":
		return Float, nil
	case "text":
		return Text, nil
	case "bytes":
		return Bytes, nil
	case "uuid":
		return UUID, nil
	case "json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("unknown type %q", s)
	}
}

// IsInputAllowed reports whether t may be used as an ingest input type.
// json is reserved and always rejected (§3, §4.1).
func (t Type) IsInputAllowed() bool {
	return t != JSON
}

// Value is the sealed interface every canonical value satisfies.
type Value interface {
	// sealed restricts implementers to this package.
	sealed()

	// Type returns the value's logical type.
	Type() Type

	// CanonicalBytes returns the exact bytes hashed after the type tag and
	// separator (§3): the raw octet string for Bytes, UTF-8 canonical text
	// for every other type.
	CanonicalBytes() []byte

	// Display renders the canonical form for JSON/text output (§6.4): the
	// canonical text itself for every type except Bytes, where it is the
	// base64 encoding of the canonical octets (the spec-recommended choice).
	Display() string
}

// NullValue is the single logical null value.
type NullValue struct{}

func (NullValue) sealed()             {}
func (NullValue) Type() Type          { return Null }
func (NullValue) CanonicalBytes() []byte { return []byte("null") }
func (NullValue) Display() string     { return "null" }

// BoolValue is a canonical boolean.
type BoolValue bool

func (BoolValue) sealed()    {}
func (BoolValue) Type() Type { return Bool }
func (b BoolValue) CanonicalBytes() []byte {
	if b {
		return []byte("true")
	}
	return []byte("false")
}
func (b BoolValue) Display() string { return string(b.CanonicalBytes()) }

// IntValue is a canonical signed 64-bit integer.
type IntValue int64

func (IntValue) sealed()    {}
func (IntValue) Type() Type { return Int }
func (i IntValue) CanonicalBytes() []byte {
	return []byte(fmt.Sprintf("%d", int64(i)))
}
func (i IntValue) Display() string { return string(i.CanonicalBytes()) }

// FloatValue is a canonical IEEE 754 binary64, pre-rendered to its
// canonical decimal text at construction time (see canonicalizeFloat64).
type FloatValue struct {
	text string
}

func (FloatValue) sealed()               {}
func (FloatValue) Type() Type            { return Float }
func (f FloatValue) CanonicalBytes() []byte { return []byte(f.text) }
func (f FloatValue) Display() string        { return f.text }

// TextValue is UTF-8 text already trimmed and NFC-normalized.
type TextValue string

func (TextValue) sealed()    {}
func (TextValue) Type() Type { return Text }
func (s TextValue) CanonicalBytes() []byte { return []byte(s) }
func (s TextValue) Display() string        { return string(s) }

// UUIDValue is a lowercase, hyphenated 36-character UUID.
type UUIDValue string

func (UUIDValue) sealed()    {}
func (UUIDValue) Type() Type { return UUID }
func (u UUIDValue) CanonicalBytes() []byte { return []byte(u) }
func (u UUIDValue) Display() string        { return string(u) }

// BytesValue is the raw decoded octet string.
type BytesValue []byte

func (BytesValue) sealed()    {}
func (BytesValue) Type() Type { return Bytes }
func (b BytesValue) CanonicalBytes() []byte { return []byte(b) }
func (b BytesValue) Display() string        { return encodeBase64(b) }
