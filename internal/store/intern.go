package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/felix/internal/value"
)

// EnsureRecord inserts record_id into records if it is not already present.
// Idempotent (§4.2).
func (s *Store) EnsureRecord(ctx context.Context, tx *sql.Tx, recordID uint64, createdTsMs int64) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO records(record_id, created_ts) VALUES (?, ?)`,
		int64(recordID), createdTsMs,
	)
	if err != nil {
		return fmt.Errorf("ensure record %d: %w", recordID, err)
	}
	return nil
}

// InternField resolves fieldName to a stable field_id, creating the row if
// this is the first time the field's identity hash has been seen (§4.1,
// "field interning"). canonicalName must already be the output of
// value.CanonicalFieldName.
func (s *Store) InternField(ctx context.Context, tx *sql.Tx, canonicalName string) (int64, error) {
	h := value.FieldHash(canonicalName)

	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO fields(name_canon, hash) VALUES (?, ?)`,
		canonicalName, h[:],
	)
	if err != nil {
		return 0, fmt.Errorf("intern field %q: %w", canonicalName, err)
	}

	var fieldID int64
	err = tx.QueryRowContext(ctx, `SELECT field_id FROM fields WHERE hash = ?`, h[:]).Scan(&fieldID)
	if err != nil {
		return 0, fmt.Errorf("intern field %q: select after insert: %w", canonicalName, err)
	}
	return fieldID, nil
}

// InternValue resolves v to a stable value_id under the store's generation,
// creating the row if this is the first time the value's identity hash has
// been seen (§4.1, "value interning").
func (s *Store) InternValue(ctx context.Context, tx *sql.Tx, v value.Value) (int64, error) {
	tag, err := s.gen.TagMap.TagByte(v.Type())
	if err != nil {
		return 0, fmt.Errorf("intern value: %w", err)
	}
	h, err := value.IdentityHash(s.gen, v)
	if err != nil {
		return 0, fmt.Errorf("intern value: %w", err)
	}

	var canonText sql.NullString
	var canonBlob []byte
	if v.Type() == value.Bytes {
		canonBlob = v.CanonicalBytes()
	} else {
		canonText = sql.NullString{String: string(v.CanonicalBytes()), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO f_values(type_tag, canon_text, canon_blob, hash) VALUES (?, ?, ?, ?)`,
		tag, canonText, canonBlob, h[:],
	)
	if err != nil {
		return 0, fmt.Errorf("intern value: %w", err)
	}

	var valueID int64
	err = tx.QueryRowContext(ctx, `SELECT value_id FROM f_values WHERE hash = ?`, h[:]).Scan(&valueID)
	if err != nil {
		return 0, fmt.Errorf("intern value: select after insert: %w", err)
	}
	return valueID, nil
}

// FieldRow is a resolved fields row.
type FieldRow struct {
	FieldID      int64
	CanonicalName string
}

// GetField looks up a field by id, used to render field names in query
// output (§6.4).
func (s *Store) GetField(ctx context.Context, fieldID int64) (FieldRow, error) {
	var fr FieldRow
	fr.FieldID = fieldID
	err := s.db.QueryRowContext(ctx, `SELECT name_canon FROM fields WHERE field_id = ?`, fieldID).Scan(&fr.CanonicalName)
	if err != nil {
		return FieldRow{}, fmt.Errorf("get field %d: %w", fieldID, err)
	}
	return fr, nil
}

// ValueRow is a resolved f_values row.
type ValueRow struct {
	ValueID    int64
	Type       value.Type
	CanonText  string
}

// GetValue looks up a value by id, used to render facts in query output
// (§6.4).
func (s *Store) GetValue(ctx context.Context, valueID int64) (ValueRow, error) {
	var vr ValueRow
	vr.ValueID = valueID
	var tag byte
	var canonText sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT type_tag, canon_text FROM f_values WHERE value_id = ?`, valueID,
	).Scan(&tag, &canonText)
	if err != nil {
		return ValueRow{}, fmt.Errorf("get value %d: %w", valueID, err)
	}
	t, err := s.gen.TagMap.TypeFromTagByte(tag)
	if err != nil {
		return ValueRow{}, fmt.Errorf("get value %d: %w", valueID, err)
	}
	vr.Type = t
	vr.CanonText = canonText.String
	return vr, nil
}
