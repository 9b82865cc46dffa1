package store

import (
	"context"
	"fmt"
)

// QueryCurrentEq returns every record_id whose current value for fieldID
// equals valueID (§4.4, current_eq).
func (s *Store) QueryCurrentEq(ctx context.Context, fieldID, valueID int64) ([]uint64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record_id FROM current_facts WHERE field_id = ? AND value_id = ?`,
		fieldID, valueID,
	)
	if err != nil {
		return nil, fmt.Errorf("query current_eq: %w", err)
	}
	defer rows.Close()
	return scanRecordIDs(rows)
}

// QueryEverEq returns every record_id that has ever carried value valueID
// for fieldID at any point in its history (§4.4, ever_eq).
func (s *Store) QueryEverEq(ctx context.Context, fieldID, valueID int64) ([]uint64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT record_id FROM facts WHERE field_id = ? AND value_id = ?`,
		fieldID, valueID,
	)
	if err != nil {
		return nil, fmt.Errorf("query ever_eq: %w", err)
	}
	defer rows.Close()
	return scanRecordIDs(rows)
}

func scanRecordIDs(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]uint64, error) {
	out := []uint64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan record_id: %w", err)
		}
		out = append(out, uint64(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// QueryFactsWindow returns every fact with ts in [t1Ms, t2Ms], ordered by
// ts ascending, optionally restricted to a single record (§4.4,
// facts_window). recordFilter is applied only when recordFilterSet is true.
func (s *Store) QueryFactsWindow(ctx context.Context, t1Ms, t2Ms int64, recordFilter uint64, recordFilterSet bool) ([]FactRow, error) {
	var rows interface {
		Next() bool
		Scan(...any) error
		Err() error
		Close() error
	}

	if recordFilterSet {
		r, err := s.db.QueryContext(ctx,
			`SELECT record_id, field_id, value_id, ts FROM facts
			 WHERE ts BETWEEN ? AND ? AND record_id = ? ORDER BY ts`,
			t1Ms, t2Ms, int64(recordFilter),
		)
		if err != nil {
			return nil, fmt.Errorf("query facts_window: %w", err)
		}
		rows = r
	} else {
		r, err := s.db.QueryContext(ctx,
			`SELECT record_id, field_id, value_id, ts FROM facts
			 WHERE ts BETWEEN ? AND ? ORDER BY ts`,
			t1Ms, t2Ms,
		)
		if err != nil {
			return nil, fmt.Errorf("query facts_window: %w", err)
		}
		rows = r
	}
	defer rows.Close()
	return scanFactRows(rows)
}

func scanFactRows(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]FactRow, error) {
	out := []FactRow{}
	for rows.Next() {
		var f FactRow
		var recordID int64
		if err := rows.Scan(&recordID, &f.FieldID, &f.ValueID, &f.TsMs); err != nil {
			return nil, fmt.Errorf("scan fact row: %w", err)
		}
		f.RecordID = uint64(recordID)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SnapshotAt returns the latest fact per field for recordID as of time t
// (the latest fact with ts <= t for each field), implementing snapshot_at
// (§4.4). A field with no fact at or before t is simply absent from the
// result.
func (s *Store) SnapshotAt(ctx context.Context, recordID uint64, tMs int64) ([]FactRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.record_id, f.field_id, f.value_id, f.ts
		FROM facts f
		JOIN (
			SELECT field_id, MAX(ts) AS max_ts
			FROM facts
			WHERE record_id = ? AND ts <= ?
			GROUP BY field_id
		) latest
		ON latest.field_id = f.field_id AND latest.max_ts = f.ts
		WHERE f.record_id = ?
	`, int64(recordID), tMs, int64(recordID))
	if err != nil {
		return nil, fmt.Errorf("query snapshot_at: %w", err)
	}
	defer rows.Close()
	return scanFactRows(rows)
}

// History returns every fact ever recorded for recordID across all fields,
// ordered by ts ascending (supplemented feature, §D: resolves the spec's
// open question about a full per-record audit trail).
func (s *Store) History(ctx context.Context, recordID uint64) ([]FactRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record_id, field_id, value_id, ts
		FROM facts
		WHERE record_id = ?
		ORDER BY ts ASC, field_id ASC
	`, int64(recordID))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()
	return scanFactRows(rows)
}
