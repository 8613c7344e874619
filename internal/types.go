package internal

import "fmt"

type DiagnosticKind string

const (
	DiagTableNotFound       DiagnosticKind = "TABLE_NOT_FOUND"
	DiagRowSkipped          DiagnosticKind = "ROW_SKIPPED"
	DiagNoBaseline          DiagnosticKind = "NO_BASELINE"
	DiagDuplicateNameInFile DiagnosticKind = "DUPLICATE_NAME_IN_FILE"
	DiagDuplicateSource     DiagnosticKind = "DUPLICATE_SOURCE"
)

// Entry is one parsed table row. Row is the 1-based position of the row in
// the table, header included.
type Entry struct {
	Row           int
	RawName       string
	CanonicalName string
	RawScore      float64
	IsReference   bool
}

type ScoredEntry struct {
	Entry
	Standardized *float64
}

type FileResult struct {
	Source      string
	Entries     []ScoredEntry
	Baseline    *float64
	Diagnostics []Diagnostic
}

type FileScore struct {
	Standardized *float64 `json:"standardized"`
	Raw          float64  `json:"raw"`
}

type AggregateRow struct {
	Name    string               `json:"name"`
	PerFile map[string]FileScore `json:"perFile"`
	Average *float64             `json:"average"`
}

// Score returns the row's score for source, if the name appeared there.
func (r AggregateRow) Score(source string) (FileScore, bool) {
	s, ok := r.PerFile[source]
	return s, ok
}

type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Source string         `json:"source"`
	Row    int            `json:"row,omitempty"`
	Name   string         `json:"name,omitempty"`
	Detail string         `json:"detail"`
}

func (d Diagnostic) String() string {
	if d.Row > 0 {
		return fmt.Sprintf("%s %s row=%d: %s", d.Kind, d.Source, d.Row, d.Detail)
	}
	return fmt.Sprintf("%s %s: %s", d.Kind, d.Source, d.Detail)
}

type FileError struct {
	Source string
	Err    error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("could not parse file %s: %v", e.Source, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Aggregate is the cross-file comparison. Sources keeps input order, Rows
// are ordered by name.
type Aggregate struct {
	Sources     []string
	Rows        []AggregateRow
	Diagnostics []Diagnostic
	Failures    []FileError
}

type AliasEntry struct {
	Key     string
	Display string
}
