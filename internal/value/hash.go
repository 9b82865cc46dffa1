package value

import (
	"crypto/sha256"
	"fmt"
)

// TagMap selects which type-tag-byte table a database generation uses (§3).
type TagMap uint8

const (
	// TagMapV03 is the normative v0.3 mapping: null=0x00 .. json=0x07.
	TagMapV03 TagMap = iota
	// TagMapLegacy is the pre-v0.3 mapping, which has no bytes or uuid tag.
	TagMapLegacy
)

// HashFormat selects whether the type-tag byte and canonical bytes are
// separated by a 0x00 byte before hashing (§3).
type HashFormat uint8

const (
	// HashFormatV03Sep inserts the 0x00 separator (format generation
	// felix_v03_sep). All new databases use this.
	HashFormatV03Sep HashFormat = iota
	// HashFormatLegacyNoSep omits the separator, for databases opened with
	// pre-v0.3 metadata.
	HashFormatLegacyNoSep
)

// Generation bundles the (tag_map, hash_format) pair persisted in a
// database's meta table (§9, "format generations").
type Generation struct {
	TagMap     TagMap
	HashFormat HashFormat
}

// CurrentGeneration is what every newly initialized database writes.
var CurrentGeneration = Generation{TagMap: TagMapV03, HashFormat: HashFormatV03Sep}

// LegacyGeneration is assumed when a database's meta table lacks the
// felix_spec/tag_map/hash_format keys (§9).
var LegacyGeneration = Generation{TagMap: TagMapLegacy, HashFormat: HashFormatLegacyNoSep}

func (tm TagMap) String() string {
	if tm == TagMapLegacy {
		return "legacy"
	}
	return "felix_v03"
}

func (hf HashFormat) String() string {
	if hf == HashFormatLegacyNoSep {
		return "legacy"
	}
	return "felix_v03_sep"
}

// TagByte returns the normative (or legacy) type-tag byte for t.
func (tm TagMap) TagByte(t Type) (byte, error) {
	if tm == TagMapLegacy {
		switch t {
		case Text:
			return 1, nil
		case Int:
			return 2, nil
		case Float:
			return 3, nil
		case Bool:
			return 4, nil
		case Null:
			return 5, nil
		case JSON:
			return 6, nil
		default:
			return 0, fmt.Errorf("type %s has no legacy tag (bytes/uuid post-date legacy generation)", t)
		}
	}
	switch t {
	case Null:
		return 0x00, nil
	case Bool:
		return 0x01, nil
	case Int:
		return 0x02, nil
	case Float:
		return 0x03, nil
	case Text:
		return 0x04, nil
	case Bytes:
		return 0x05, nil
	case UUID:
		return 0x06, nil
	case JSON:
		return 0x07, nil
	default:
		return 0, fmt.Errorf("unknown type %s", t)
	}
}

// TypeFromTagByte is the inverse of TagByte, used when reading a stored
// f_values row back into a Type.
func (tm TagMap) TypeFromTagByte(tag byte) (Type, error) {
	if tm == TagMapLegacy {
		switch tag {
		case 1:
			return Text, nil
		case 2:
			return Int, nil
		case 3:
			return Float, nil
		case 4:
			return Bool, nil
		case 5:
			return Null, nil
		case 6:
			return JSON, nil
		default:
			return 0, fmt.Errorf("unknown legacy type tag %d", tag)
		}
	}
	switch tag {
	case 0x00:
		return Null, nil
	case 0x01:
		return Bool, nil
	case 0x02:
		return Int, nil
	case 0x03:
		return Float, nil
	case 0x04:
		return Text, nil
	case 0x05:
		return Bytes, nil
	case 0x06:
		return UUID, nil
	case 0x07:
		return JSON, nil
	default:
		return 0, fmt.Errorf("unknown v0.3 type tag %d", tag)
	}
}

// IdentityHash computes the 32-byte SHA-256 identity hash for v under the
// given database generation (§3):
//
//	SHA256(type_tag_byte [|| 0x00] || canonical_bytes)
//
// The 0x00 separator is present iff gen.HashFormat is HashFormatV03Sep.
func IdentityHash(gen Generation, v Value) ([32]byte, error) {
	tag, err := gen.TagMap.TagByte(v.Type())
	if err != nil {
		return [32]byte{}, err
	}
	h := sha256.New()
	h.Write([]byte{tag})
	if gen.HashFormat == HashFormatV03Sep {
		h.Write([]byte{0x00})
	}
	h.Write(v.CanonicalBytes())

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// fieldHashDomain is the domain prefix for field identity hashes (§3):
// SHA256("field" || 0x00 || canonical_name). This is independent of the
// database's value-hash generation — field hashing never changed across
// Felix's format history.
var fieldHashDomain = []byte("field\x00")

// FieldHash computes the identity hash for an already-canonicalized field
// name (§3).
func FieldHash(canonicalName string) [32]byte {
	h := sha256.New()
	h.Write(fieldHashDomain)
	h.Write([]byte(canonicalName))
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
