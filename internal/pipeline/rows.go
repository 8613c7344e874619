package pipeline

import (
	"fmt"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"stdscore/internal"
	"stdscore/internal/util"
)

// ReferenceMarker flags a row as a reference solution when it appears as a
// word in the name cell.
const ReferenceMarker = "std"

// Resolver maps a name from the table to its display name.
type Resolver interface {
	Resolve(name string) string
}

// RowError describes a table row that was not turned into an entry.
type RowError struct {
	Row    int
	Name   string
	Reason string
}

func (e *RowError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("row %d (%s): %s", e.Row, e.Name, e.Reason)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// ParseRows yields one entry or *RowError per data row of table, in table
// order. The first row is the header and is never yielded. The sequence
// reads the table as it goes and is meant to be ranged over once.
func ParseRows(table *goquery.Selection, resolver Resolver) iter.Seq2[internal.Entry, error] {
	return func(yield func(internal.Entry, error) bool) {
		rows := table.Find("tr")
		for i := 1; i < rows.Length(); i++ {
			entry, err := parseRow(rows.Eq(i), i+1, resolver)
			if !yield(entry, err) {
				return
			}
		}
	}
}

func parseRow(row *goquery.Selection, rowNo int, resolver Resolver) (internal.Entry, error) {
	cells := row.Find("td")
	if cells.Length() < 3 {
		return internal.Entry{}, &RowError{Row: rowNo, Reason: fmt.Sprintf("expected rank, name and score cells, got %d cells", cells.Length())}
	}

	nameCell := cells.Eq(1)
	name := util.NormalizeSpaces(nameCell.Text())
	if link := nameCell.Find("a").First(); link.Length() > 0 {
		name = util.NormalizeSpaces(link.Text())
	}
	if name == "" {
		return internal.Entry{}, &RowError{Row: rowNo, Reason: "empty name cell"}
	}

	parsed := util.ParseScore(cells.Eq(2).Text())
	if parsed.Score == nil {
		return internal.Entry{}, &RowError{Row: rowNo, Name: name, Reason: fmt.Sprintf("no number in score cell %q", strings.TrimSpace(cells.Eq(2).Text()))}
	}
	if *parsed.Score < 0 {
		return internal.Entry{}, &RowError{Row: rowNo, Name: name, Reason: fmt.Sprintf("negative score %s", *parsed.ScoreRaw)}
	}

	canonical := name
	if resolver != nil {
		canonical = resolver.Resolve(name)
	}
	return internal.Entry{
		Row:           rowNo,
		RawName:       name,
		CanonicalName: canonical,
		RawScore:      *parsed.Score,
		IsReference:   util.ContainsToken(nameCell.Text(), ReferenceMarker),
	}, nil
}
