// Package report turns an aggregate into the comparison table shown to
// the user.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"stdscore/internal"
)

type Options struct {
	Precision int
	Key       Key
	Desc      bool
	// Styled enables colour and rounded borders; plain output uses ASCII.
	Styled bool
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#6C7086"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#45475A"))
)

// Headers lists the columns: name, average, then a std and raw column per
// source in input order.
func Headers(sources []string) []string {
	out := []string{"Name", "Avg Std"}
	for _, s := range sources {
		out = append(out, s+" Std", s+" Raw")
	}
	return out
}

// Cells formats rows for display; undefined values render as "-".
func Cells(agg internal.Aggregate, rows []internal.AggregateRow, precision int) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := []string{row.Name, formatPtr(row.Average, precision)}
		for _, src := range agg.Sources {
			s, ok := row.Score(src)
			if !ok {
				cells = append(cells, "-", "-")
				continue
			}
			cells = append(cells, formatPtr(s.Standardized, precision), format(s.Raw, precision))
		}
		out = append(out, cells)
	}
	return out
}

func Render(agg internal.Aggregate, opts Options) string {
	rows := append([]internal.AggregateRow(nil), agg.Rows...)
	Sort(rows, opts.Key, opts.Desc)
	cells := Cells(agg, rows, opts.Precision)

	t := table.New().
		Headers(Headers(agg.Sources)...).
		Rows(cells...)
	if !opts.Styled {
		return t.Border(lipgloss.ASCIIBorder()).String()
	}
	return t.
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(cells) && col < len(cells[row]) && cells[row][col] == "-" {
				return mutedStyle
			}
			return cellStyle
		}).
		String()
}

// Summary is the one-line footer printed below the table.
func Summary(agg internal.Aggregate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "files=%d rows=%d", len(agg.Sources), len(agg.Rows))
	if len(agg.Failures) > 0 {
		fmt.Fprintf(&b, " failed=%d", len(agg.Failures))
	}
	if len(agg.Diagnostics) > 0 {
		fmt.Fprintf(&b, " diagnostics=%d", len(agg.Diagnostics))
	}
	return b.String()
}

func formatPtr(v *float64, precision int) string {
	if v == nil {
		return "-"
	}
	return format(*v, precision)
}

func format(v float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, v)
}
