// Package config decodes felixctl's optional TOML defaults file
// (SPEC_FULL.md §A.2). Absence of a config file is not an error — every
// value has a built-in default matching spec.md's own defaults.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/roach88/felix/internal/value"
)

// Config holds the defaults a felixctl invocation falls back to when the
// corresponding flag is not given explicitly.
type Config struct {
	// DBPath is the default database file path.
	DBPath string `toml:"db_path"`

	// DefaultMode is the default ingestion mode ("event" or "observe") that
	// ingest-ndjson applies when --default-mode is not given explicitly.
	DefaultMode string `toml:"default_mode"`

	// Limits lets an operator tighten (never loosen) the §4.1 resource
	// defaults.
	Limits Limits `toml:"limits"`
}

// Limits mirrors the §4.1 resource bounds. A zero field means "use the
// built-in default"; a non-zero field must not exceed it.
type Limits struct {
	MaxTextBytes       int64 `toml:"max_text_bytes"`
	MaxBytesBytes      int64 `toml:"max_bytes_bytes"`
	MaxFieldNameBytes  int64 `toml:"max_field_name_bytes"`
	MaxFieldsPerIngest int64 `toml:"max_fields_per_ingest"`
}

// Default returns the built-in configuration, used when no config file is
// given.
func Default() Config {
	return Config{
		DBPath:      "felix.sqlite",
		DefaultMode: "event",
	}
}

// Load decodes a TOML config file at path and validates that any Limits
// override only tightens the §4.1 defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Limits.validateTightensOnly(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ToValueLimits converts to the internal/value.Limits shape value.SetLimits
// expects.
func (l Limits) ToValueLimits() value.Limits {
	return value.Limits{
		MaxTextBytes:       l.MaxTextBytes,
		MaxBytesBytes:      l.MaxBytesBytes,
		MaxFieldNameBytes:  l.MaxFieldNameBytes,
		MaxFieldsPerIngest: l.MaxFieldsPerIngest,
	}
}

func (l Limits) validateTightensOnly() error {
	if l.MaxTextBytes > value.MaxTextBytes {
		return fmt.Errorf("max_text_bytes %d exceeds built-in limit %d", l.MaxTextBytes, value.MaxTextBytes)
	}
	if l.MaxBytesBytes > value.MaxBytesBytes {
		return fmt.Errorf("max_bytes_bytes %d exceeds built-in limit %d", l.MaxBytesBytes, value.MaxBytesBytes)
	}
	if l.MaxFieldNameBytes > value.MaxFieldNameBytes {
		return fmt.Errorf("max_field_name_bytes %d exceeds built-in limit %d", l.MaxFieldNameBytes, value.MaxFieldNameBytes)
	}
	if l.MaxFieldsPerIngest > value.MaxFieldsPerIngest {
		return fmt.Errorf("max_fields_per_ingest %d exceeds built-in limit %d", l.MaxFieldsPerIngest, value.MaxFieldsPerIngest)
	}
	return nil
}
