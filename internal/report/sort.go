package report

import (
	"fmt"
	"sort"
	"strings"

	"stdscore/internal"
)

const (
	KeyName    = "name"
	KeyAverage = "avg"
)

// Key selects the column rows are sorted by: "name", "avg", "std:<source>"
// or "raw:<source>".
type Key struct {
	Field  string
	Source string
}

func ParseKey(s string, sources []string) (Key, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", KeyAverage:
		return Key{Field: KeyAverage}, nil
	case KeyName:
		return Key{Field: KeyName}, nil
	}
	field, src, ok := strings.Cut(s, ":")
	field = strings.ToLower(field)
	if !ok || (field != "std" && field != "raw") {
		return Key{}, fmt.Errorf("unknown sort key %q (want name|avg|std:<file>|raw:<file>)", s)
	}
	for _, known := range sources {
		if known == src {
			return Key{Field: field, Source: src}, nil
		}
	}
	return Key{}, fmt.Errorf("sort key %q names unknown file %q", s, src)
}

// value returns the sortable number for row, false when it is undefined.
func (k Key) value(row internal.AggregateRow) (float64, bool) {
	switch k.Field {
	case KeyAverage:
		if row.Average == nil {
			return 0, false
		}
		return *row.Average, true
	case "std":
		s, ok := row.Score(k.Source)
		if !ok || s.Standardized == nil {
			return 0, false
		}
		return *s.Standardized, true
	case "raw":
		s, ok := row.Score(k.Source)
		if !ok {
			return 0, false
		}
		return s.Raw, true
	}
	return 0, false
}

// Sort orders rows in place. Undefined values go last in both directions
// and ties fall back to name order.
func Sort(rows []internal.AggregateRow, key Key, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		if key.Field == KeyName {
			if desc {
				return rows[i].Name > rows[j].Name
			}
			return rows[i].Name < rows[j].Name
		}
		vi, oki := key.value(rows[i])
		vj, okj := key.value(rows[j])
		switch {
		case oki != okj:
			return oki
		case !oki || vi == vj:
			return rows[i].Name < rows[j].Name
		case desc:
			return vi > vj
		default:
			return vi < vj
		}
	})
}
