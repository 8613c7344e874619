package pipeline

import (
	"math"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"stdscore/internal"
)

// scorePage builds a page in the layout the score tables come in: two
// leading paragraphs, then the table inside the third one. No doctype, so
// the parser stays in quirks mode.
func scorePage(rows ...string) string {
	return `<html><head><title>Result</title></head><body>` +
		`<p>Contest 12</p><p>Problem set A</p>` +
		`<p><table border="1"><tr><th>Rank</th><th>Name</th><th>Score</th></tr>` +
		strings.Join(rows, "") +
		`</table></p></body></html>`
}

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func fp(v float64) *float64 { return &v }

func entry(name string, score float64, ref bool) internal.Entry {
	return internal.Entry{RawName: name, CanonicalName: name, RawScore: score, IsReference: ref}
}
