package cli

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// visibleWidth is the rune count of s without ANSI colour escapes.
func visibleWidth(s string) int {
	return utf8.RuneCountInString(ansiEscape.ReplaceAllString(s, ""))
}

// Table renders rows in aligned columns separated by two spaces.
type Table struct {
	headers    []string
	rows       [][]string
	padding    int
	alignRight map[int]bool
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers:    headers,
		padding:    2,
		alignRight: make(map[int]bool),
	}
}

// AlignRight right-aligns the given columns.
func (t *Table) AlignRight(cols ...int) {
	for _, c := range cols {
		t.alignRight[c] = true
	}
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = visibleWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], visibleWidth(cell))
		}
	}

	var b strings.Builder
	sep := strings.Repeat(" ", t.padding)

	t.writeLine(&b, t.headers, widths, sep)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = strings.Repeat("-", w)
	}
	t.writeLine(&b, rule, widths, sep)
	for _, row := range t.rows {
		t.writeLine(&b, row, widths, sep)
	}
	return b.String()
}

func (t *Table) writeLine(b *strings.Builder, cells []string, widths []int, sep string) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = pad(cell, widths[i], t.alignRight[i])
	}
	b.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
	b.WriteString("\n")
}

// pad pads s with spaces to width. Longer strings are returned unchanged.
func pad(s string, width int, right bool) string {
	n := width - visibleWidth(s)
	if n <= 0 {
		return s
	}
	if right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}
