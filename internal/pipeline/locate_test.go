package pipeline

import (
	"errors"
	"testing"
)

func TestParagraphLocator(t *testing.T) {
	doc := mustDoc(t, scorePage(`<tr><td>1</td><td>Alice</td><td>80</td></tr>`))
	table, err := (ParagraphLocator{Index: 2}).Locate(doc)
	if err != nil {
		t.Fatal(err)
	}
	if n := table.Find("tr").Length(); n != 2 {
		t.Fatalf("rows=%d", n)
	}
}

func TestParagraphLocatorIgnoresEarlierTables(t *testing.T) {
	html := `<html><body><p>intro</p>` +
		`<p><table><tr><td>1</td><td>Decoy</td><td>999</td></tr></table></p>` +
		`<p><table><tr><th>#</th></tr><tr><td>1</td><td>Alice</td><td>80</td></tr></table></p>` +
		`</body></html>`
	table, err := (ParagraphLocator{Index: 2}).Locate(mustDoc(t, html))
	if err != nil {
		t.Fatal(err)
	}
	if got := table.Find("td").Eq(1).Text(); got != "Alice" {
		t.Fatalf("picked wrong table, first name=%q", got)
	}
}

func TestParagraphLocatorNotFound(t *testing.T) {
	cases := []struct {
		name string
		html string
	}{
		{name: "two paragraphs", html: `<html><body><p>a</p><p><table><tr><td>1</td></tr></table></p></body></html>`},
		{name: "no table in third", html: `<html><body><p>a</p><p>b</p><p>just text</p></body></html>`},
		{name: "table without rows", html: `<html><body><p>a</p><p>b</p><p><table></table></p></body></html>`},
		{name: "empty document", html: ``},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := (ParagraphLocator{Index: 2}).Locate(mustDoc(t, tc.html))
			if !errors.Is(err, ErrTableNotFound) {
				t.Fatalf("err=%v", err)
			}
		})
	}
}

func TestSelectorLocator(t *testing.T) {
	html := `<html><body><div id="board"><table><tr><th>#</th></tr><tr><td>1</td><td>Bob</td><td>70</td></tr></table></div></body></html>`
	for _, sel := range []string{"#board", "#board table"} {
		table, err := (SelectorLocator{Selector: sel}).Locate(mustDoc(t, html))
		if err != nil {
			t.Fatalf("%s: %v", sel, err)
		}
		if got := table.Find("td").Eq(1).Text(); got != "Bob" {
			t.Fatalf("%s: name=%q", sel, got)
		}
	}

	if _, err := (SelectorLocator{Selector: "#missing"}).Locate(mustDoc(t, html)); !errors.Is(err, ErrTableNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestNewLocator(t *testing.T) {
	if _, ok := NewLocator("", 2).(ParagraphLocator); !ok {
		t.Fatal("expected paragraph locator")
	}
	if l, ok := NewLocator("table.scores", 2).(SelectorLocator); !ok || l.Selector != "table.scores" {
		t.Fatalf("got %#v", l)
	}
}
