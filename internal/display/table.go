package display

import (
	"strings"
)

// Table renders an aligned text table with optional color support.
type Table struct {
	headers []string
	rows    [][]string
	// highlightRow is the 0-based row index to highlight (typically "today"). -1 = none.
	highlightRow int
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:      headers,
		highlightRow: -1,
	}
}

// AddRow appends a row of values. The number of values should match the number of headers.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row index (0-based) should be highlighted.
func (t *Table) SetHighlightRow(idx int) {
	t.highlightRow = idx
}

// Len is the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render produces the formatted table string with leading indent.
// Cells may already carry styling; widths ignore escape sequences.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], Width(cell))
			}
		}
	}

	var sb strings.Builder
	sb.WriteString("  " + Bold(formatRow(t.headers, widths)) + "\n")

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	sb.WriteString(Dim("  "+strings.Join(sepParts, "  ")) + "\n")

	for i, row := range t.rows {
		line := formatRow(row, widths)
		if i == t.highlightRow {
			line = Accent(line)
		}
		sb.WriteString("  " + line + "\n")
	}

	return sb.String()
}

// formatRow pads each cell to its column width and joins them with two spaces.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = cell + strings.Repeat(" ", max(0, w-Width(cell)))
	}
	return strings.Join(parts, "  ")
}
