package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.DBPath == "" || cfg.DefaultMode == "" {
		t.Errorf("Default() left required fields empty: %+v", cfg)
	}
}

func TestLoad_MissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err == nil {
		t.Error("expected Load() to fail for an explicitly named file that does not exist")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "felix.toml")
	body := `
db_path = "custom.sqlite"
default_mode = "observe"

[limits]
max_fields_per_ingest = 10
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DBPath != "custom.sqlite" || cfg.DefaultMode != "observe" {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Limits.MaxFieldsPerIngest != 10 {
		t.Errorf("Limits.MaxFieldsPerIngest = %d, want 10", cfg.Limits.MaxFieldsPerIngest)
	}
}

func TestLimits_ToValueLimits(t *testing.T) {
	l := Limits{MaxTextBytes: 100, MaxBytesBytes: 200, MaxFieldNameBytes: 10, MaxFieldsPerIngest: 5}
	vl := l.ToValueLimits()
	if vl.MaxTextBytes != 100 || vl.MaxBytesBytes != 200 || vl.MaxFieldNameBytes != 10 || vl.MaxFieldsPerIngest != 5 {
		t.Errorf("ToValueLimits() = %+v, want a field-for-field copy of %+v", vl, l)
	}
}

func TestLoad_RejectsLooseningLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "felix.toml")
	body := `
[limits]
max_fields_per_ingest = 100000
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected Load() to reject a limit that loosens the built-in default")
	}
}
