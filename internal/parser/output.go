package parser

import (
	"context"
	"fmt"

	"github.com/roach88/felix/internal/store"
)

// FactView is the §6.4 Fact JSON shape:
// {record_id, field_id, field_name, value_id, type, canon, ts_ms}.
type FactView struct {
	RecordID  uint64 `json:"record_id"`
	FieldID   int64  `json:"field_id"`
	FieldName string `json:"field_name"`
	ValueID   int64  `json:"value_id"`
	Type      string `json:"type"`
	Canon     string `json:"canon"`
	TsMs      int64  `json:"ts_ms"`
}

// BuildFactView resolves a store.FactRow into its §6.4 JSON shape.
func BuildFactView(ctx context.Context, s *store.Store, f store.FactRow) (FactView, error) {
	fr, err := s.GetField(ctx, f.FieldID)
	if err != nil {
		return FactView{}, fmt.Errorf("resolve field %d: %w", f.FieldID, err)
	}
	vr, err := s.GetValue(ctx, f.ValueID)
	if err != nil {
		return FactView{}, fmt.Errorf("resolve value %d: %w", f.ValueID, err)
	}
	return FactView{
		RecordID:  f.RecordID,
		FieldID:   f.FieldID,
		FieldName: fr.CanonicalName,
		ValueID:   f.ValueID,
		Type:      vr.Type.String(),
		Canon:     vr.CanonText,
		TsMs:      f.TsMs,
	}, nil
}

// BuildFactViews resolves a slice of fact rows, e.g. a facts_window or
// history result, preserving their order.
func BuildFactViews(ctx context.Context, s *store.Store, rows []store.FactRow) ([]FactView, error) {
	out := make([]FactView, 0, len(rows))
	for _, r := range rows {
		fv, err := BuildFactView(ctx, s, r)
		if err != nil {
			return nil, err
		}
		out = append(out, fv)
	}
	return out, nil
}

// SnapshotFieldView is one entry of the §6.4 Snapshot JSON "fields" map.
type SnapshotFieldView struct {
	FieldID  int64  `json:"field_id"`
	ValueID  int64  `json:"value_id"`
	Type     string `json:"type"`
	Canon    string `json:"canon"`
	FactTsMs int64  `json:"fact_ts_ms"`
}

// SnapshotView is the §6.4 Snapshot JSON shape.
type SnapshotView struct {
	RecordID uint64                       `json:"record_id"`
	TsMs     int64                        `json:"ts_ms"`
	Fields   map[string]SnapshotFieldView `json:"fields"`
}

// BuildSnapshotView resolves store.SnapshotAt's result into its §6.4 JSON
// shape, keyed by canonical field name.
func BuildSnapshotView(ctx context.Context, s *store.Store, recordID uint64, tMs int64, rows []store.FactRow) (SnapshotView, error) {
	sv := SnapshotView{RecordID: recordID, TsMs: tMs, Fields: make(map[string]SnapshotFieldView, len(rows))}
	for _, r := range rows {
		fr, err := s.GetField(ctx, r.FieldID)
		if err != nil {
			return SnapshotView{}, fmt.Errorf("resolve field %d: %w", r.FieldID, err)
		}
		vr, err := s.GetValue(ctx, r.ValueID)
		if err != nil {
			return SnapshotView{}, fmt.Errorf("resolve value %d: %w", r.ValueID, err)
		}
		sv.Fields[fr.CanonicalName] = SnapshotFieldView{
			FieldID:  r.FieldID,
			ValueID:  r.ValueID,
			Type:     vr.Type.String(),
			Canon:    vr.CanonText,
			FactTsMs: r.TsMs,
		}
	}
	return sv, nil
}
