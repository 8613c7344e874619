package pipeline

import (
	"fmt"
	"sort"

	"stdscore/internal"
	"stdscore/internal/util"
)

// Aggregator folds file results into one row per display name. It is not
// safe for concurrent use; a single goroutine owns it for a whole run.
type Aggregator struct {
	resolver    Resolver
	sources     []string
	rows        map[string]*internal.AggregateRow
	diagnostics []internal.Diagnostic
}

func NewAggregator(resolver Resolver) *Aggregator {
	return &Aggregator{resolver: resolver, rows: map[string]*internal.AggregateRow{}}
}

// Add merges one file. A file whose source was already added replaces the
// earlier one.
func (a *Aggregator) Add(fr internal.FileResult) {
	a.diagnostics = append(a.diagnostics, fr.Diagnostics...)

	if a.hasSource(fr.Source) {
		a.dropSource(fr.Source)
		a.diagnostics = append(a.diagnostics, internal.Diagnostic{
			Kind:   internal.DiagDuplicateSource,
			Source: fr.Source,
			Detail: "source added twice, earlier result replaced",
		})
	} else {
		a.sources = append(a.sources, fr.Source)
	}

	seenAt := map[string]int{}
	for _, e := range fr.Entries {
		name := a.canonical(e.Entry)
		if prevRow, dup := seenAt[name]; dup {
			a.diagnostics = append(a.diagnostics, internal.Diagnostic{
				Kind:   internal.DiagDuplicateNameInFile,
				Source: fr.Source,
				Row:    e.Row,
				Name:   name,
				Detail: fmt.Sprintf("%q (row %d) resolves to the same name as row %d; row %d wins", e.RawName, e.Row, prevRow, e.Row),
			})
		}
		seenAt[name] = e.Row

		row, ok := a.rows[name]
		if !ok {
			row = &internal.AggregateRow{Name: name, PerFile: map[string]internal.FileScore{}}
			a.rows[name] = row
		}
		row.PerFile[fr.Source] = internal.FileScore{Standardized: e.Standardized, Raw: e.RawScore}
	}
}

// Result returns the rows ordered by name with averages recomputed from
// the per-file scores.
func (a *Aggregator) Result() internal.Aggregate {
	names := make([]string, 0, len(a.rows))
	for name := range a.rows {
		names = append(names, name)
	}
	sort.Strings(names)

	out := internal.Aggregate{
		Sources:     append([]string(nil), a.sources...),
		Rows:        make([]internal.AggregateRow, 0, len(names)),
		Diagnostics: append([]internal.Diagnostic(nil), a.diagnostics...),
	}
	for _, name := range names {
		row := a.rows[name]
		perFile := make(map[string]internal.FileScore, len(row.PerFile))
		for k, v := range row.PerFile {
			perFile[k] = v
		}
		out.Rows = append(out.Rows, internal.AggregateRow{
			Name:    name,
			PerFile: perFile,
			Average: a.average(row),
		})
	}
	return out
}

// average sums in source order so repeated runs give identical floats.
func (a *Aggregator) average(row *internal.AggregateRow) *float64 {
	sum, n := 0.0, 0
	for _, src := range a.sources {
		score, ok := row.PerFile[src]
		if !ok || score.Standardized == nil {
			continue
		}
		sum += *score.Standardized
		n++
	}
	if n == 0 {
		return nil
	}
	return util.FloatPtr(sum / float64(n))
}

func (a *Aggregator) canonical(e internal.Entry) string {
	if e.CanonicalName != "" {
		return e.CanonicalName
	}
	if a.resolver != nil {
		return a.resolver.Resolve(e.RawName)
	}
	return e.RawName
}

func (a *Aggregator) hasSource(source string) bool {
	for _, s := range a.sources {
		if s == source {
			return true
		}
	}
	return false
}

func (a *Aggregator) dropSource(source string) {
	for name, row := range a.rows {
		delete(row.PerFile, source)
		if len(row.PerFile) == 0 {
			delete(a.rows, name)
		}
	}
}
