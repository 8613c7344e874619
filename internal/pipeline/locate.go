package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrTableNotFound = errors.New("score table not found")

// Locator finds the score table in a parsed document. The returned
// selection holds exactly one table element with at least one row.
type Locator interface {
	Locate(doc *goquery.Document) (*goquery.Selection, error)
}

// ParagraphLocator picks the first table nested in the Index-th (zero
// based) paragraph directly under body. Documents without a doctype are
// parsed in quirks mode, which is what keeps the table inside the <p>.
type ParagraphLocator struct {
	Index int
}

func (l ParagraphLocator) Locate(doc *goquery.Document) (*goquery.Selection, error) {
	ps := doc.Find("body > p")
	if ps.Length() <= l.Index {
		return nil, fmt.Errorf("%w: found %d <p> under <body>, need %d", ErrTableNotFound, ps.Length(), l.Index+1)
	}
	table := ps.Eq(l.Index).Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no <table> in <p> #%d", ErrTableNotFound, l.Index+1)
	}
	return requireRows(table)
}

// SelectorLocator picks the first element matching a CSS selector. A match
// that is not itself a table stands for the first table nested in it.
type SelectorLocator struct {
	Selector string
}

func (l SelectorLocator) Locate(doc *goquery.Document) (*goquery.Selection, error) {
	match := doc.Find(l.Selector).First()
	if match.Length() == 0 {
		return nil, fmt.Errorf("%w: nothing matches %q", ErrTableNotFound, l.Selector)
	}
	table := match
	if goquery.NodeName(match) != "table" {
		table = match.Find("table").First()
	}
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no <table> under %q", ErrTableNotFound, l.Selector)
	}
	return requireRows(table)
}

// NewLocator returns a SelectorLocator when selector is set and a
// ParagraphLocator otherwise.
func NewLocator(selector string, paragraphIndex int) Locator {
	if strings.TrimSpace(selector) != "" {
		return SelectorLocator{Selector: selector}
	}
	if paragraphIndex < 0 {
		paragraphIndex = 0
	}
	return ParagraphLocator{Index: paragraphIndex}
}

func requireRows(table *goquery.Selection) (*goquery.Selection, error) {
	if table.Find("tr").Length() == 0 {
		return nil, fmt.Errorf("%w: table has no rows", ErrTableNotFound)
	}
	return table, nil
}
