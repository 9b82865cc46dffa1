package parser

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"

	"github.com/roach88/felix/internal/engine"
	"github.com/roach88/felix/internal/value"
)

// MaxLineBytes bounds a single NDJSON line (§6.2).
const MaxLineBytes = 2 * 1024 * 1024

type fieldJSON struct {
	T string          `json:"t"`
	V json.RawMessage `json:"v,omitempty"`
}

type lineJSON struct {
	RecordID uint64               `json:"record_id"`
	TsMs     int64                `json:"ts_ms"`
	Mode     string               `json:"mode,omitempty"`
	Fields   map[string]fieldJSON `json:"fields"`
}

// Line is one decoded NDJSON record, ready for engine.Ingest.
type Line struct {
	RecordID uint64
	TsMs     int64
	Mode     string // "" if the line omitted "mode"; caller applies its default
	Items    []engine.Item
}

// LineError reports which input line failed to parse (§6.2: "failing lines
// fail the surrounding ingest").
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }
func (e *LineError) Unwrap() error { return e.Err }

// ParseNDJSONLine decodes and canonicalizes a single NDJSON line (§6.2).
// Fields are processed in name order so that a failing batch always names
// the same offending field across runs of the same input.
func ParseNDJSONLine(raw []byte) (Line, error) {
	var lj lineJSON
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&lj); err != nil {
		return Line{}, fmt.Errorf("decode ndjson line: %w", err)
	}

	names := make([]string, 0, len(lj.Fields))
	for name := range lj.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	items := make([]engine.Item, 0, len(names))
	for _, name := range names {
		fj := lj.Fields[name]
		canonName, err := value.CanonicalFieldName(name)
		if err != nil {
			return Line{}, fmt.Errorf("field %q: %w", name, err)
		}
		t, err := value.ParseType(fj.T)
		if err != nil {
			return Line{}, fmt.Errorf("field %q: %w", name, err)
		}
		v, err := value.FromJSON(t, fj.V)
		if err != nil {
			return Line{}, fmt.Errorf("field %q: %w", name, err)
		}
		items = append(items, engine.Item{FieldName: canonName, Value: v})
	}

	return Line{RecordID: lj.RecordID, TsMs: lj.TsMs, Mode: lj.Mode, Items: items}, nil
}

// NewLineScanner returns a bufio.Scanner bounded to MaxLineBytes per line.
func NewLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), MaxLineBytes)
	return sc
}

// OpenSource opens path for NDJSON ingestion, transparently decompressing a
// ".gz" input (SPEC_FULL.md §B: klauspost/compress/gzip).
func OpenSource(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ndjson source: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip ndjson source: %w", err)
	}
	return &gzipSource{gz: gz, f: f}, nil
}

type gzipSource struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipSource) Read(p []byte) (int, error) { return g.gz.Read(p) }

func (g *gzipSource) Close() error {
	gerr := g.gz.Close()
	ferr := g.f.Close()
	if gerr != nil {
		return gerr
	}
	return ferr
}

// ScanNDJSON reads r line by line, parsing and handing each decoded Line to
// fn. Blank lines are skipped. It stops at the first line that fails to
// parse or that fn rejects — per §6.2 a failing line fails the surrounding ingest, so
// callers doing a bulk import should treat any returned error as "nothing
// after the last successful fn call was committed" only if fn itself commits
// per line; a caller wanting one all-or-nothing transaction across the whole
// file should accumulate Items itself instead of committing inside fn.
//
// limiter, if non-nil, throttles how fast lines are handed to fn (§B domain
// stack: golang.org/x/time/rate), for large backfills that shouldn't starve
// concurrent readers of the single-writer database.
func ScanNDJSON(ctx context.Context, r io.Reader, limiter *rate.Limiter, fn func(lineNo int, line Line) error) error {
	sc := NewLineScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := sc.Bytes()
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		if limiter != nil {
			if err := limiter.WaitN(ctx, 1); err != nil {
				return &LineError{Line: lineNo, Err: err}
			}
		}
		line, err := ParseNDJSONLine(raw)
		if err != nil {
			return &LineError{Line: lineNo, Err: err}
		}
		if err := fn(lineNo, line); err != nil {
			return &LineError{Line: lineNo, Err: err}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan ndjson: %w", err)
	}
	return nil
}
