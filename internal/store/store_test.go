package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/felix/internal/value"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if s.Generation() != value.CurrentGeneration {
		t.Errorf("Generation() = %+v, want CurrentGeneration", s.Generation())
	}
}

func TestOpen_OpensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	var count int
	if err := s2.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count); err != nil {
		t.Errorf("query failed: %v", err)
	}
	if s2.Generation() != value.CurrentGeneration {
		t.Errorf("reopened Generation() = %+v, want CurrentGeneration", s2.Generation())
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"meta", "fields", "f_values", "records", "facts", "current_facts"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InternsNullValueInFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM f_values").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("f_values row count after Open() = %d, want 1 (the interned null value)", count)
	}

	h, err := value.IdentityHash(s.Generation(), value.NullValue{})
	if err != nil {
		t.Fatalf("IdentityHash() failed: %v", err)
	}
	var valueID int64
	if err := s.db.QueryRow("SELECT value_id FROM f_values WHERE hash = ?", h[:]).Scan(&valueID); err != nil {
		t.Errorf("null value not found by its identity hash: %v", err)
	}
}

func TestOpen_NullValueIDStableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	h, err := value.IdentityHash(s1.Generation(), value.NullValue{})
	if err != nil {
		t.Fatalf("IdentityHash() failed: %v", err)
	}
	var firstID int64
	if err := s1.db.QueryRow("SELECT value_id FROM f_values WHERE hash = ?", h[:]).Scan(&firstID); err != nil {
		t.Fatalf("null value not found after first Open(): %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	var count int
	if err := s2.db.QueryRow("SELECT COUNT(*) FROM f_values").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("f_values row count after reopen = %d, want 1 (reopen must not re-intern)", count)
	}

	var secondID int64
	if err := s2.db.QueryRow("SELECT value_id FROM f_values WHERE hash = ?", h[:]).Scan(&secondID); err != nil {
		t.Fatalf("null value not found after reopen: %v", err)
	}
	if firstID != secondID {
		t.Errorf("null value_id changed across reopen: %d -> %d", firstID, secondID)
	}
}

func TestOpen_LegacyDatabaseKeepsItsGeneration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	// Simulate a pre-v0.3 database by wiping the generation markers a
	// fresh Open() would have written.
	if _, err := s.db.Exec(`DELETE FROM meta`); err != nil {
		t.Fatalf("failed to clear meta: %v", err)
	}
	s.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()

	if s2.Generation() != value.LegacyGeneration {
		t.Errorf("Generation() = %+v, want LegacyGeneration", s2.Generation())
	}
}
