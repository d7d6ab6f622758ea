// Package render turns a QueryResponse into terminal output: aligned tables
// for result sets, glamour-rendered markdown for the narrative, CSV export
// for the primary set. It consumes responses and never mutates them.
package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	captionStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("245"))
)

// Columns returns the column names of a result set in a stable order.
func Columns(rows []map[string]any) []string {
	seen := map[string]struct{}{}
	var cols []string
	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	return cols
}

// Table renders a result set as an aligned, styled text table. An empty set
// renders as a caption instead of an empty grid.
func Table(rows []map[string]any) string {
	if len(rows) == 0 {
		return captionStyle.Render("(sin resultados)")
	}

	cols := Columns(rows)
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = len(col)
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i, col := range cols {
			v := formatValue(row[col])
			cells[r][i] = v
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
	}

	var b strings.Builder
	for i, col := range cols {
		b.WriteString(headerStyle.Render(pad(col, widths[i])))
		if i < len(cols)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")
	for _, row := range cells {
		for i, v := range row {
			b.WriteString(cellStyle.Render(pad(v, widths[i])))
			if i < len(row)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Caption renders secondary text such as result-set descriptions.
func Caption(text string) string {
	return captionStyle.Render(text)
}

// Markdown renders the narrative answer with glamour. On renderer failure the
// raw text comes back so the answer is never lost.
func Markdown(text string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		return text
	}
	return out
}

// CSV writes a result set to w with a sorted header row. An empty set writes
// nothing.
func CSV(w io.Writer, rows []map[string]any) error {
	if len(rows) == 0 {
		return nil
	}
	cols := Columns(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for _, row := range rows {
		for i, col := range cols {
			record[i] = formatValue(row[col])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		// JSON numbers decode as float64; keep integral values unsuffixed.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
