package view

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
)

// Column renders one field of T
type Column[T any] struct {
	Title string
	Value func(T) string
}

// Table writes rows as a display-width aligned text table
func Table(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i := 0; i < len(widths) && i < len(r); i++ {
			if n := runewidth.StringWidth(r[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}
	var b strings.Builder
	line := func(cells []string) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(widths)-1 {
				b.WriteString(cell)
			} else {
				b.WriteString(runewidth.FillRight(cell, widths[i]))
			}
		}
		b.WriteString("\n")
	}
	line(header)
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	line(sep)
	for _, r := range rows {
		line(r)
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write table")
}

// Rows projects items through cols
func Rows[T any](items []T, cols []Column[T]) (header []string, rows [][]string) {
	header = make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Title
	}
	rows = make([][]string, 0, len(items))
	for _, it := range items {
		r := make([]string, len(cols))
		for i, c := range cols {
			r[i] = clean(c.Value(it))
		}
		rows = append(rows, r)
	}
	return header, rows
}

// clean keeps one cell on one line and caps very long values
func clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, 48, "…")
}
