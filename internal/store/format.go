package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/felix/internal/value"
)

const (
	metaKeySpec       = "felix_spec"
	metaKeyTagMap     = "tag_map"
	metaKeyHashFormat = "hash_format"

	metaValSpec           = "0.3"
	metaValTagMapV03      = "felix_v03"
	metaValHashFormatSep  = "felix_v03_sep"
)

// loadOrInitGeneration determines this database's format generation (§9).
//
// preexisting reports whether the fields table already existed before this
// Open() call's CREATE TABLE IF NOT EXISTS ran — it is the signal that
// distinguishes a brand-new database (stamp the current generation) from an
// existing one whose meta table simply predates the felix_spec/tag_map/
// hash_format keys (honor legacy, per §9: absence of those keys on an
// existing database means legacy, not an invitation to upgrade it).
func (s *Store) loadOrInitGeneration(preexisting bool) error {
	tagMap, err := s.metaGet(metaKeyTagMap)
	if err != nil {
		return err
	}
	hashFormat, err := s.metaGet(metaKeyHashFormat)
	if err != nil {
		return err
	}

	if !preexisting {
		if err := s.metaSet(metaKeySpec, metaValSpec); err != nil {
			return err
		}
		if err := s.metaSet(metaKeyTagMap, metaValTagMapV03); err != nil {
			return err
		}
		if err := s.metaSet(metaKeyHashFormat, metaValHashFormatSep); err != nil {
			return err
		}
		s.gen = value.CurrentGeneration

		// The null value is guaranteed present with a known id after
		// initialization (§4.3), mirroring ensure_null_value() in the
		// reference engine's init_schema().
		if err := s.internNullValue(); err != nil {
			return fmt.Errorf("intern null value: %w", err)
		}
		return nil
	}

	s.gen = value.LegacyGeneration
	if tagMap == metaValTagMapV03 {
		s.gen.TagMap = value.TagMapV03
	}
	if hashFormat == metaValHashFormatSep {
		s.gen.HashFormat = value.HashFormatV03Sep
	}
	return nil
}

// internNullValue interns value.NullValue{} in its own transaction, used
// once during a fresh database's generation-stamping.
func (s *Store) internNullValue() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := s.InternValue(context.Background(), tx, value.NullValue{}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) metaGet(k string) (string, error) {
	var v string
	err := s.db.QueryRow("SELECT v FROM meta WHERE k = ?", k).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("meta get %q: %w", k, err)
	}
	return v, nil
}

func (s *Store) metaSet(k, v string) error {
	_, err := s.db.Exec(`
		INSERT INTO meta(k, v) VALUES (?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v
	`, k, v)
	if err != nil {
		return fmt.Errorf("meta set %q: %w", k, err)
	}
	return nil
}
