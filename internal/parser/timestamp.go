package parser

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var tsParser = newTimestampParser()

func newTimestampParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseTimestamp resolves the ergonomic sugar accepted by the ingest
// command's <ts> argument (SPEC_FULL.md §B):
// a bare integer is taken as an epoch-ms value; anything else is resolved
// with human-language parsing ("now", "yesterday 3pm") relative to now. This
// has no bearing on canonical or hash semantics — it only produces the
// ts_ms argument handed to engine.Ingest.
func ParseTimestamp(raw string, now time.Time) (int64, error) {
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ms, nil
	}
	res, err := tsParser.Parse(raw, now)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	if res == nil {
		return 0, fmt.Errorf("parse timestamp %q: not recognized", raw)
	}
	return res.Time.UnixMilli(), nil
}
