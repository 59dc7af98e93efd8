package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

// table lays out aligned text columns. Flexible columns are truncated, widest
// first, until a row fits in the available width.
type table struct {
	headers []string
	rows    [][]string
	right   map[int]bool
	flex    map[int]bool
}

func (t table) lines(maxWidth int) []string {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	if maxWidth > 0 {
		t.shrink(widths, maxWidth)
	}

	lines := make([]string, 0, len(t.rows)+1)
	if len(t.headers) > 0 {
		lines = append(lines, t.formatRow(t.headers, widths))
	}
	for _, row := range t.rows {
		lines = append(lines, t.formatRow(row, widths))
	}
	return lines
}

func (t table) widths() []int {
	colCount := len(t.headers)
	for _, row := range t.rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	widths := make([]int, colCount)
	for i, header := range t.headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// shrink narrows flexible columns one cell at a time. Headers are never cut.
func (t table) shrink(widths []int, maxWidth int) {
	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	for total > maxWidth {
		col := -1
		for i, w := range widths {
			if !t.flex[i] || w <= t.minWidth(i) {
				continue
			}
			if col == -1 || w > widths[col] {
				col = i
			}
		}
		if col == -1 {
			return
		}
		widths[col]--
		total--
	}
}

func (t table) minWidth(col int) int {
	min := displayWidth(ellipsis) + 1
	if col < len(t.headers) {
		if w := displayWidth(t.headers[col]); w > min {
			min = w
		}
	}
	return min
}

func (t table) formatRow(row []string, widths []int) string {
	var b strings.Builder
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		if displayWidth(cell) > width {
			cell = runewidth.Truncate(cell, width, ellipsis)
		}
		b.WriteString(padCell(cell, width, t.right[i]))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}

// displayWidth counts terminal cells so chapter titles in any script align.
func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
