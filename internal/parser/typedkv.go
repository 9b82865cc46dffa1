package parser

import (
	"fmt"
	"strings"

	"github.com/roach88/felix/internal/engine"
	"github.com/roach88/felix/internal/value"
)

// ParseTypedKV parses a single "FieldName=type:value" token (§6.3).
// Everything after the first ':' is the raw value string, so text values may
// contain colons; whitespace inside the value is preserved as-is
// (canonicalization trims where the type calls for it).
func ParseTypedKV(tok string) (engine.Item, error) {
	name, rest, ok := strings.Cut(tok, "=")
	if !ok {
		return engine.Item{}, fmt.Errorf("malformed field token %q: missing %q", tok, "=")
	}
	typeName, raw, ok := strings.Cut(rest, ":")
	if !ok {
		return engine.Item{}, fmt.Errorf("malformed field token %q: missing %q", tok, ":")
	}

	canonName, err := value.CanonicalFieldName(name)
	if err != nil {
		return engine.Item{}, fmt.Errorf("field token %q: %w", tok, err)
	}
	t, err := value.ParseType(typeName)
	if err != nil {
		return engine.Item{}, fmt.Errorf("field token %q: %w", tok, err)
	}
	v, err := value.FromText(t, raw)
	if err != nil {
		return engine.Item{}, fmt.Errorf("field token %q: %w", tok, err)
	}
	return engine.Item{FieldName: canonName, Value: v}, nil
}

// ParseTypedKVArgs parses every token, used by the argv-style CLI ingest
// command (SPEC_FULL.md §D.2).
func ParseTypedKVArgs(tokens []string) ([]engine.Item, error) {
	items := make([]engine.Item, 0, len(tokens))
	for _, tok := range tokens {
		item, err := ParseTypedKV(tok)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ParseTypeColonValue parses a bare "type:value" token (no leading field
// name), used by the current-eq/ever-eq query commands where the field name
// is already a separate argument.
func ParseTypeColonValue(tok string) (value.Value, error) {
	typeName, raw, ok := strings.Cut(tok, ":")
	if !ok {
		return nil, fmt.Errorf("malformed type:value token %q: missing %q", tok, ":")
	}
	t, err := value.ParseType(typeName)
	if err != nil {
		return nil, fmt.Errorf("type:value token %q: %w", tok, err)
	}
	v, err := value.FromText(t, raw)
	if err != nil {
		return nil, fmt.Errorf("type:value token %q: %w", tok, err)
	}
	return v, nil
}
