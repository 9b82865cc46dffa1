package parser

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// TestFactView_JSONShape locks the §6.4 Fact JSON shape byte-for-byte so a
// field rename or reorder in FactView shows up as a diff here instead of
// surprising a downstream consumer of `felixctl ... --format json`.
func TestFactView_JSONShape(t *testing.T) {
	fv := FactView{
		RecordID:  1,
		FieldID:   2,
		FieldName: "Status",
		ValueID:   3,
		Type:      "text",
		Canon:     "active",
		TsMs:      1000,
	}

	out, err := json.Marshal(fv)
	if err != nil {
		t.Fatalf("marshal FactView: %v", err)
	}
	out = append(out, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "fact_view", out)
}

// TestSnapshotView_JSONShape locks the §6.4 Snapshot JSON shape.
func TestSnapshotView_JSONShape(t *testing.T) {
	sv := SnapshotView{
		RecordID: 1,
		TsMs:     5000,
		Fields: map[string]SnapshotFieldView{
			"Status": {FieldID: 2, ValueID: 3, Type: "text", Canon: "active", FactTsMs: 1000},
		},
	}

	out, err := json.Marshal(sv)
	if err != nil {
		t.Fatalf("marshal SnapshotView: %v", err)
	}
	out = append(out, '\n')

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "snapshot_view", out)
}
