package parser

import (
	"context"
	"strings"
	"testing"
)

func TestParseNDJSONLine_DecodesFieldsInNameOrder(t *testing.T) {
	raw := `{"record_id": 1, "ts_ms": 1000, "mode": "event", "fields": {
		"Status": {"t": "text", "v": "active"},
		"Age": {"t": "int", "v": 6}
	}}`
	line, err := ParseNDJSONLine([]byte(raw))
	if err != nil {
		t.Fatalf("ParseNDJSONLine() failed: %v", err)
	}
	if line.RecordID != 1 || line.TsMs != 1000 || line.Mode != "event" {
		t.Errorf("line = %+v", line)
	}
	if len(line.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(line.Items))
	}
	if line.Items[0].FieldName != "Age" || line.Items[1].FieldName != "Status" {
		t.Errorf("expected fields in sorted name order, got %q then %q", line.Items[0].FieldName, line.Items[1].FieldName)
	}
}

func TestParseNDJSONLine_NullOmitsValue(t *testing.T) {
	raw := `{"record_id": 1, "ts_ms": 1000, "fields": {"X": {"t": "null"}}}`
	line, err := ParseNDJSONLine([]byte(raw))
	if err != nil {
		t.Fatalf("ParseNDJSONLine() failed: %v", err)
	}
	if len(line.Items) != 1 || line.Items[0].Value.Type().String() != "null" {
		t.Errorf("expected a single null field, got %+v", line.Items)
	}
}

func TestParseNDJSONLine_RejectsReservedType(t *testing.T) {
	raw := `{"record_id": 1, "ts_ms": 1000, "fields": {"X": {"t": "json", "v": {}}}}`
	if _, err := ParseNDJSONLine([]byte(raw)); err == nil {
		t.Error("expected error for reserved json type")
	}
}

func TestParseNDJSONLine_RejectsWrongShape(t *testing.T) {
	raw := `{"record_id": 1, "ts_ms": 1000, "fields": {"Age": {"t": "int", "v": "not-a-number"}}}`
	if _, err := ParseNDJSONLine([]byte(raw)); err == nil {
		t.Error("expected error for wrong JSON shape")
	}
}

func TestParseNDJSONLine_RejectsUnknownEnvelopeField(t *testing.T) {
	raw := `{"record_id": 1, "ts_ms": 1000, "bogus": true, "fields": {}}`
	if _, err := ParseNDJSONLine([]byte(raw)); err == nil {
		t.Error("expected error for unknown envelope field")
	}
}

func TestScanNDJSON_StopsAtFirstBadLine(t *testing.T) {
	input := strings.Join([]string{
		`{"record_id": 1, "ts_ms": 1000, "fields": {"Age": {"t": "int", "v": 6}}}`,
		`{"record_id": 1, "ts_ms": 2000, "fields": {"Age": {"t": "int", "v": "bad"}}}`,
		`{"record_id": 1, "ts_ms": 3000, "fields": {"Age": {"t": "int", "v": 8}}}`,
	}, "\n")

	var seen []int
	err := ScanNDJSON(context.Background(), strings.NewReader(input), nil, func(lineNo int, line Line) error {
		seen = append(seen, lineNo)
		return nil
	})
	if err == nil {
		t.Fatal("expected an error from the malformed second line")
	}
	lineErr, ok := err.(*LineError)
	if !ok {
		t.Fatalf("expected a *LineError, got %T: %v", err, err)
	}
	if lineErr.Line != 2 {
		t.Errorf("LineError.Line = %d, want 2", lineErr.Line)
	}
	if len(seen) != 1 || seen[0] != 1 {
		t.Errorf("fn should only have been called for line 1, got %v", seen)
	}
}

func TestScanNDJSON_SkipsBlankLines(t *testing.T) {
	input := "\n" + `{"record_id": 1, "ts_ms": 1000, "fields": {}}` + "\n\n"
	count := 0
	err := ScanNDJSON(context.Background(), strings.NewReader(input), nil, func(lineNo int, line Line) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("ScanNDJSON() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
