package store

import (
	"context"
	"database/sql"
	"fmt"
)

// FactRow is one row of the append-only fact log, or of current_facts when
// used as a projection row — both tables share this shape (§4.2).
type FactRow struct {
	RecordID uint64
	FieldID  int64
	ValueID  int64
	TsMs     int64
}

// InsertFact appends a row to the fact log. Violates its primary key (and
// so fails) if a fact for this (record_id, field_id, ts) already exists —
// callers choose a ts that doesn't collide, or accept the error (§4.2).
func (s *Store) InsertFact(ctx context.Context, tx *sql.Tx, f FactRow) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO facts(record_id, field_id, value_id, ts) VALUES (?, ?, ?, ?)`,
		int64(f.RecordID), f.FieldID, f.ValueID, f.TsMs,
	)
	if err != nil {
		return fmt.Errorf("insert fact: %w", err)
	}
	return nil
}

// UpsertCurrentIfNewer maintains the current_facts projection: it inserts a
// row if none exists for (record_id, field_id), or replaces the existing
// row only if f.TsMs is at least as new as what's stored — an
// out-of-order fact (older than what's current) never regresses the
// projection (§4.2, CP-3 in doc.go).
func (s *Store) UpsertCurrentIfNewer(ctx context.Context, tx *sql.Tx, f FactRow) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO current_facts(record_id, field_id, value_id, ts)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(record_id, field_id) DO UPDATE SET
			value_id = excluded.value_id,
			ts = excluded.ts
		WHERE excluded.ts >= current_facts.ts
	`, int64(f.RecordID), f.FieldID, f.ValueID, f.TsMs)
	if err != nil {
		return fmt.Errorf("upsert current fact: %w", err)
	}
	return nil
}

// GetCurrent returns the current value_id/ts for (recordID, fieldID), or
// ok=false if the field has never been observed for that record.
func (s *Store) GetCurrent(ctx context.Context, tx *sql.Tx, recordID uint64, fieldID int64) (valueID int64, tsMs int64, ok bool, err error) {
	row := tx.QueryRowContext(ctx,
		`SELECT value_id, ts FROM current_facts WHERE record_id = ? AND field_id = ?`,
		int64(recordID), fieldID,
	)
	err = row.Scan(&valueID, &tsMs)
	if err == sql.ErrNoRows {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, fmt.Errorf("get current fact: %w", err)
	}
	return valueID, tsMs, true, nil
}

// RebuildCurrent recomputes current_facts from scratch by taking, for each
// (record_id, field_id), the fact with the largest ts (§4.5). The fact log's
// primary key guarantees ts is unique within a (record_id, field_id) group,
// so there is never a tie to break.
func (s *Store) RebuildCurrent(ctx context.Context) error {
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM current_facts`); err != nil {
			return fmt.Errorf("rebuild current: clear: %w", err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO current_facts(record_id, field_id, value_id, ts)
			SELECT f.record_id, f.field_id, f.value_id, f.ts
			FROM facts f
			JOIN (
				SELECT record_id, field_id, MAX(ts) AS max_ts
				FROM facts
				GROUP BY record_id, field_id
			) latest
			ON latest.record_id = f.record_id
			AND latest.field_id = f.field_id
			AND latest.max_ts = f.ts
		`)
		if err != nil {
			return fmt.Errorf("rebuild current: repopulate: %w", err)
		}
		return nil
	})
}
