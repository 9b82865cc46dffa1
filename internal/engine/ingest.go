package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/felix/internal/store"
	"github.com/roach88/felix/internal/value"
)

// Mode selects Felix's temporality policy for a single ingest call (§4.4).
type Mode int

const (
	// EventDriven suppresses appending a fact when the incoming value is
	// identical to the record's current value for that field.
	EventDriven Mode = iota
	// ObservationDriven always appends a fact, even when the value is
	// unchanged from the current one.
	ObservationDriven
)

// ParseMode parses the CLI/NDJSON "event"/"observe" mode token (§6.2, §6.3).
func ParseMode(s string) (Mode, error) {
	switch s {
	case "event":
		return EventDriven, nil
	case "observe":
		return ObservationDriven, nil
	default:
		return 0, fmt.Errorf("mode must be %q or %q, got %q", "event", "observe", s)
	}
}

// Item is one field=value pair to ingest, already canonicalized.
type Item struct {
	FieldName string
	Value     value.Value
}

// Engine wraps a Store with the ingest policy that decides, per field, when
// an incoming value produces a new fact row.
type Engine struct {
	store *store.Store
}

// New wraps s in an Engine.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Ingest applies items to recordID at tsMs under mode, as a single
// transaction (§4.2, §4.4): ensure_record, then for each item intern its
// field and value, check event-driven suppression against the current
// projection, and append+upsert when a fact should be recorded.
//
// Items exceeding the effective MaxFieldsPerIngest limit fails the whole
// call before any write happens (§4.1, §5).
func (e *Engine) Ingest(ctx context.Context, recordID uint64, tsMs int64, mode Mode, items []Item) error {
	maxFields := value.EffectiveLimits().MaxFieldsPerIngest
	if int64(len(items)) > maxFields {
		return NewResourceLimitError(recordID, fmt.Sprintf("fields per ingest exceeds %d", maxFields))
	}

	db := e.store
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		if err := db.EnsureRecord(ctx, tx, recordID, tsMs); err != nil {
			return NewStorageError(recordID, err)
		}

		for _, item := range items {
			fieldID, err := db.InternField(ctx, tx, item.FieldName)
			if err != nil {
				return NewStorageError(recordID, err)
			}
			valueID, err := db.InternValue(ctx, tx, item.Value)
			if err != nil {
				return NewStorageError(recordID, err)
			}

			if mode == EventDriven {
				curValueID, _, ok, err := db.GetCurrent(ctx, tx, recordID, fieldID)
				if err != nil {
					return NewStorageError(recordID, err)
				}
				if ok && curValueID == valueID {
					continue // unchanged => no fact (§4.4)
				}
			}

			f := store.FactRow{RecordID: recordID, FieldID: fieldID, ValueID: valueID, TsMs: tsMs}
			if err := db.InsertFact(ctx, tx, f); err != nil {
				return &IngestError{Code: ErrCodeConflict, Message: err.Error(), RecordID: recordID, FieldName: item.FieldName}
			}
			if err := db.UpsertCurrentIfNewer(ctx, tx, f); err != nil {
				return NewStorageError(recordID, err)
			}
		}
		return nil
	})
}
