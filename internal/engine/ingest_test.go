package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/felix/internal/store"
	"github.com/roach88/felix/internal/value"
)

func openTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return New(s), s
}

func textItem(t *testing.T, field, text string) Item {
	t.Helper()
	v, err := value.NewText(text)
	if err != nil {
		t.Fatalf("NewText() failed: %v", err)
	}
	return Item{FieldName: field, Value: v}
}

func TestIngest_ObservationDrivenAlwaysAppends(t *testing.T) {
	e, s := openTestEngine(t)
	ctx := context.Background()

	if err := e.Ingest(ctx, 1, 100, ObservationDriven, []Item{textItem(t, "status", "pending")}); err != nil {
		t.Fatalf("first Ingest() failed: %v", err)
	}
	if err := e.Ingest(ctx, 1, 200, ObservationDriven, []Item{textItem(t, "status", "pending")}); err != nil {
		t.Fatalf("second Ingest() failed: %v", err)
	}

	rows, err := s.History(ctx, 1)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("observation-driven ingest of the same value twice should append 2 facts, got %d", len(rows))
	}
}

func TestIngest_EventDrivenSuppressesUnchangedValue(t *testing.T) {
	e, s := openTestEngine(t)
	ctx := context.Background()

	if err := e.Ingest(ctx, 1, 100, EventDriven, []Item{textItem(t, "status", "pending")}); err != nil {
		t.Fatalf("first Ingest() failed: %v", err)
	}
	if err := e.Ingest(ctx, 1, 200, EventDriven, []Item{textItem(t, "status", "pending")}); err != nil {
		t.Fatalf("second Ingest() failed: %v", err)
	}

	rows, err := s.History(ctx, 1)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("event-driven ingest of an unchanged value should suppress the second fact, got %d facts", len(rows))
	}
}

func TestIngest_EventDrivenAppendsOnChange(t *testing.T) {
	e, s := openTestEngine(t)
	ctx := context.Background()

	if err := e.Ingest(ctx, 1, 100, EventDriven, []Item{textItem(t, "status", "pending")}); err != nil {
		t.Fatalf("first Ingest() failed: %v", err)
	}
	if err := e.Ingest(ctx, 1, 200, EventDriven, []Item{textItem(t, "status", "active")}); err != nil {
		t.Fatalf("second Ingest() failed: %v", err)
	}

	rows, err := s.History(ctx, 1)
	if err != nil {
		t.Fatalf("History() failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("event-driven ingest of a changed value should append a fact, got %d facts", len(rows))
	}
}

func TestIngest_ResourceLimitOnFieldCount(t *testing.T) {
	e, _ := openTestEngine(t)
	ctx := context.Background()

	items := make([]Item, value.MaxFieldsPerIngest+1)
	for i := range items {
		items[i] = textItem(t, "f", "v")
	}

	err := e.Ingest(ctx, 1, 100, EventDriven, items)
	if !IsResourceLimitError(err) {
		t.Errorf("expected a resource-limit error, got %v", err)
	}
}

func TestIngest_AllOrNothing(t *testing.T) {
	e, s := openTestEngine(t)
	ctx := context.Background()

	// A second fact at the same (record, field, ts) as one already present
	// conflicts; the whole batch, including the field before it, must roll
	// back rather than partially commit.
	if err := e.Ingest(ctx, 1, 100, ObservationDriven, []Item{textItem(t, "status", "pending")}); err != nil {
		t.Fatalf("first Ingest() failed: %v", err)
	}

	items := []Item{
		textItem(t, "age", "6"),
		textItem(t, "status", "active"), // collides with the existing (1, status, 100) fact
	}
	err := e.Ingest(ctx, 1, 100, ObservationDriven, items)
	if err == nil {
		t.Fatal("expected a conflict error from the colliding fact")
	}

	rows, histErr := s.History(ctx, 1)
	if histErr != nil {
		t.Fatalf("History() failed: %v", histErr)
	}
	for _, r := range rows {
		fr, err := s.GetField(ctx, r.FieldID)
		if err != nil {
			t.Fatalf("GetField() failed: %v", err)
		}
		if fr.CanonicalName == "age" {
			t.Error("the age fact from the failed batch must not have committed")
		}
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("event"); err != nil || m != EventDriven {
		t.Errorf("ParseMode(event) = %v, %v", m, err)
	}
	if m, err := ParseMode("observe"); err != nil || m != ObservationDriven {
		t.Errorf("ParseMode(observe) = %v, %v", m, err)
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
