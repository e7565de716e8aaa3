package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ErrNotTabular is returned when the table format is requested for a value
// that has no table form.
var ErrNotTabular = errors.New("value cannot be rendered as a table")

// Table is the tabular form of a value.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Footer is printed under the table, e.g. a row count.
	Footer string
}

// Tabler is implemented by values with a table form.
type Tabler interface {
	Table() Table
}

// Valid reports whether format is a known output format.
func Valid(format string) bool {
	switch format {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Write renders v to w in format.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable:
		t, ok := v.(Tabler)
		if !ok {
			return fmt.Errorf("%w: %T", ErrNotTabular, v)
		}
		return writeTable(w, t.Table())
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTable(w io.Writer, t Table) error {
	r := lipgloss.NewRenderer(w)

	headerStyle := r.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("12"))
	cellStyle := r.NewStyle().Padding(0, 1)
	subtle := r.NewStyle().Foreground(lipgloss.Color("8"))

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(subtle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(t.Headers...).
		Rows(t.Rows...)

	if t.Title != "" {
		if _, err := fmt.Fprintln(w, r.NewStyle().Bold(true).Render(t.Title)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, tbl.String()); err != nil {
		return err
	}
	if t.Footer != "" {
		if _, err := fmt.Fprintln(w, subtle.Render(t.Footer)); err != nil {
			return err
		}
	}
	return nil
}
