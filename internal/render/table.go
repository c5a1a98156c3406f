// Package render converts storage system records into an aligned text
// table. Pure functions only: no I/O, deterministic output.
package render

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/siops/insights-cli/internal/models"
)

// Placeholder is rendered for a missing or zero timestamp.
const Placeholder = "—"

// tableHeaders is the fixed column order.
var tableHeaders = [4]string{
	"Name",
	"Last Successful Probe (UTC)",
	"Last Successful Monitor (UTC)",
	"Condition",
}

// FormatTimestamp renders an epoch-millisecond timestamp as an ISO-8601
// UTC string. Missing or zero values render as the placeholder glyph;
// a value that failed integer conversion renders as its raw form so one
// odd record never fails the whole table.
func FormatTimestamp(ts models.EpochMS) string {
	switch {
	case ts.Valid && ts.MS != 0:
		return time.UnixMilli(ts.MS).UTC().Format(time.RFC3339)
	case ts.Raw != "":
		return ts.Raw
	default:
		return Placeholder
	}
}

// Table renders records as a monospace-aligned table. A negative limit
// renders everything; otherwise only the first limit records, in input
// order. Column widths are the maximum of header and cell widths; cells
// are joined with " | ", and a dash divider (joined with "-+-")
// separates the header from the body. No trailing newline.
func Table(records []models.StorageSystemRecord, limit int) string {
	var rows [][4]string
	for i, record := range records {
		if limit >= 0 && i >= limit {
			break
		}
		rows = append(rows, [4]string{
			string(record.Name),
			FormatTimestamp(record.LastSuccessfulProbe),
			FormatTimestamp(record.LastSuccessfulMonitor),
			string(record.Condition),
		})
	}

	var widths [4]int
	for i, header := range tableHeaders {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := utf8.RuneCountInString(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, formatRow(tableHeaders, widths))

	divider := make([]string, 4)
	for i, width := range widths {
		divider[i] = strings.Repeat("-", width)
	}
	lines = append(lines, strings.Join(divider, "-+-"))

	for _, row := range rows {
		lines = append(lines, formatRow(row, widths))
	}

	return strings.Join(lines, "\n")
}

// formatRow left-aligns each cell to its column width. Widths are in
// runes, not bytes: the placeholder glyph is multi-byte.
func formatRow(cells [4]string, widths [4]int) string {
	padded := make([]string, 4)
	for i, cell := range cells {
		if pad := widths[i] - utf8.RuneCountInString(cell); pad > 0 {
			cell += strings.Repeat(" ", pad)
		}
		padded[i] = cell
	}
	return strings.Join(padded, " | ")
}
