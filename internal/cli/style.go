package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/roach88/felix/internal/parser"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	tableCellStyle   = lipgloss.NewStyle()
)

// renderFactTable renders a slice of FactView rows as a text-mode table
// (SPEC_FULL.md §A.6), used by the history and facts-window commands.
func renderFactTable(rows []parser.FactView) string {
	headers := []string{"record_id", "field_name", "type", "canon", "ts_ms"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := []string{
			fmt.Sprintf("%d", r.RecordID),
			r.FieldName,
			r.Type,
			r.Canon,
			fmt.Sprintf("%d", r.TsMs),
		}
		for i, c := range row {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
		cells = append(cells, row)
	}

	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(padRow(headers, widths)))
	for _, row := range cells {
		b.WriteString("\n")
		b.WriteString(tableCellStyle.Render(padRow(row, widths)))
	}
	return b.String()
}

// renderSnapshotTable renders a SnapshotView's fields as a text-mode table.
func renderSnapshotTable(sv parser.SnapshotView) string {
	headers := []string{"field_name", "type", "canon", "fact_ts_ms"}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	names := make([]string, 0, len(sv.Fields))
	for name := range sv.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	cells := make([][]string, 0, len(names))
	for _, name := range names {
		fv := sv.Fields[name]
		row := []string{name, fv.Type, fv.Canon, fmt.Sprintf("%d", fv.FactTsMs)}
		for i, c := range row {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
		cells = append(cells, row)
	}

	var b strings.Builder
	b.WriteString(tableHeaderStyle.Render(padRow(headers, widths)))
	for _, row := range cells {
		b.WriteString("\n")
		b.WriteString(tableCellStyle.Render(padRow(row, widths)))
	}
	return b.String()
}

func padRow(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, c := range cells {
		padded[i] = c + strings.Repeat(" ", widths[i]-len(c))
	}
	return strings.Join(padded, "  ")
}
