package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/mattn/go-sqlite3"
	"github.com/roach88/felix/internal/value"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for Felix's fact log and interning tables.
// Uses SQLite in WAL mode with a single connection, matching the reference
// engine's single-writer model (§5).
type Store struct {
	db  *sql.DB
	gen value.Generation
}

// Open creates or opens a SQLite database at path, applies required
// pragmas, and ensures the schema exists. Idempotent — safe to call
// repeatedly against the same file.
//
// A newly created database is stamped with value.CurrentGeneration. An
// existing database keeps whatever generation its meta table already
// declares (§9).
func Open(path string) (*Store, error) {
	// _txlock=immediate makes every transaction start with BEGIN IMMEDIATE
	// (see WithTx).
	db, err := sql.Open("sqlite3", path+"?_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite allows exactly one writer; pin the pool to one connection so
	// every statement observes the same pragmas and the same transaction.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	preexisting, err := tableExists(db, "fields")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("probe existing schema: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.loadOrInitGeneration(preexisting); err != nil {
		db.Close()
		return nil, fmt.Errorf("load format generation: %w", err)
	}

	return s, nil
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var got string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, name).Scan(&got)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Generation reports the format generation this database was opened under.
func (s *Store) Generation() value.Generation { return s.gen }

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("execute %q: %w", p, err)
		}
	}
	return nil
}

// WithTx runs fn inside a BEGIN IMMEDIATE transaction, committing on
// success and rolling back on any error, mirroring the reference engine's
// with_tx wrapper (§4.3: ingest is all-or-nothing per call).
//
// SQLITE_BUSY from lock contention on BEGIN IMMEDIATE is retried with a
// short bounded backoff rather than surfaced to the caller immediately —
// this does not change the transaction model, only how long a caller
// waits for the single writer to become free.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	op := func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			if isBusyErr(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		if err := fn(tx); err != nil {
			tx.Rollback()
			if isBusyErr(err) {
				return err
			}
			return backoff.Permanent(err)
		}

		if err := tx.Commit(); err != nil {
			if isBusyErr(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 10 * time.Millisecond
	eb.MaxInterval = 250 * time.Millisecond
	bo := backoff.WithMaxRetries(eb, 8)

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			return permanent.Err
		}
		return err
	}
	return nil
}

func isBusyErr(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
