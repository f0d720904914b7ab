package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Table renders aligned columns without borders. Widths are measured with
// lipgloss so styled cells line up.
type Table struct {
	header     []string
	rows       [][]string
	colWidths  []int
	colPadding int
	maxWidth   int
}

// NewTable creates a new table with the specified number of columns
func NewTable(cols int) *Table {
	return &Table{
		colWidths:  make([]int, cols),
		colPadding: 2,
	}
}

// SetHeader sets column titles, rendered bold.
func (t *Table) SetHeader(cells ...string) {
	t.header = t.normalize(cells)
	t.track(t.header)
}

// SetMaxWidth truncates the last column so rows fit in width. Zero disables it.
func (t *Table) SetMaxWidth(width int) {
	t.maxWidth = width
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	row := t.normalize(cells)
	t.track(row)
	t.rows = append(t.rows, row)
}

func (t *Table) normalize(cells []string) []string {
	row := make([]string, len(t.colWidths))
	copy(row, cells)
	return row
}

func (t *Table) track(row []string) {
	for i, cell := range row {
		if w := lipgloss.Width(cell); w > t.colWidths[i] {
			t.colWidths[i] = w
		}
	}
}

// String renders the table as a string
func (t *Table) String() string {
	if len(t.rows) == 0 && t.header == nil {
		return ""
	}

	var sb strings.Builder
	if t.header != nil {
		t.writeRow(&sb, t.header, true)
	}
	for _, row := range t.rows {
		t.writeRow(&sb, row, false)
	}
	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, row []string, header bool) {
	padding := strings.Repeat(" ", t.colPadding)
	used := 0
	for i, cell := range row {
		if i > 0 {
			sb.WriteString(padding)
			used += t.colPadding
		}

		last := i == len(row)-1
		if last && t.maxWidth > 0 {
			if room := t.maxWidth - used; room > 1 && lipgloss.Width(cell) > room {
				cell = ansi.Truncate(cell, room, "…")
			}
		}

		width := lipgloss.Width(cell)
		if header {
			cell = Bold.Render(cell)
		}
		sb.WriteString(cell)
		if !last {
			sb.WriteString(strings.Repeat(" ", t.colWidths[i]-width))
			used += t.colWidths[i]
		}
	}
	sb.WriteString("\n")
}
