package pipeline

import (
	"stdscore/internal"
	"stdscore/internal/util"
)

// Normalize computes the file baseline, the highest raw score among
// non-reference entries, and scales every entry to raw/baseline*100.
// Without a positive baseline all standardized scores stay nil.
func Normalize(source string, entries []internal.Entry) internal.FileResult {
	result := internal.FileResult{
		Source:  source,
		Entries: make([]internal.ScoredEntry, 0, len(entries)),
	}

	for _, e := range entries {
		if e.IsReference {
			continue
		}
		if result.Baseline == nil || e.RawScore > *result.Baseline {
			result.Baseline = util.FloatPtr(e.RawScore)
		}
	}

	switch {
	case result.Baseline == nil:
		result.Diagnostics = append(result.Diagnostics, internal.Diagnostic{
			Kind:   internal.DiagNoBaseline,
			Source: source,
			Detail: "no non-reference entries",
		})
	case *result.Baseline == 0:
		result.Baseline = nil
		result.Diagnostics = append(result.Diagnostics, internal.Diagnostic{
			Kind:   internal.DiagNoBaseline,
			Source: source,
			Detail: "highest non-reference score is 0",
		})
	}

	for _, e := range entries {
		scored := internal.ScoredEntry{Entry: e}
		if result.Baseline != nil {
			scored.Standardized = util.FloatPtr(e.RawScore / *result.Baseline * 100)
		}
		result.Entries = append(result.Entries, scored)
	}
	return result
}
