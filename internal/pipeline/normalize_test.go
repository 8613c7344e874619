package pipeline

import (
	"testing"

	"stdscore/internal"
)

func TestNormalizeBaseline(t *testing.T) {
	fr := Normalize("T1", []internal.Entry{
		entry("Alice", 80, false),
		entry("Bob", 100, false),
		entry("Ref", 50, true),
	})
	if fr.Baseline == nil || *fr.Baseline != 100 {
		t.Fatalf("baseline=%v", fr.Baseline)
	}
	want := []float64{80, 100, 50}
	for i, e := range fr.Entries {
		if e.Standardized == nil || !almost(*e.Standardized, want[i]) {
			t.Fatalf("%s: got %v want %v", e.RawName, e.Standardized, want[i])
		}
	}
	if len(fr.Diagnostics) != 0 {
		t.Fatalf("diagnostics=%v", fr.Diagnostics)
	}
}

func TestNormalizeReferenceOnly(t *testing.T) {
	fr := Normalize("T2", []internal.Entry{entry("Ref", 90, true)})
	if fr.Baseline != nil {
		t.Fatalf("baseline=%v", *fr.Baseline)
	}
	if len(fr.Entries) != 1 || fr.Entries[0].Standardized != nil || fr.Entries[0].RawScore != 90 {
		t.Fatalf("entries=%+v", fr.Entries)
	}
	if len(fr.Diagnostics) != 1 || fr.Diagnostics[0].Kind != internal.DiagNoBaseline {
		t.Fatalf("diagnostics=%v", fr.Diagnostics)
	}
}

func TestNormalizeReferenceAboveBaseline(t *testing.T) {
	fr := Normalize("T3", []internal.Entry{
		entry("Alice", 40, false),
		entry("std", 200, true),
		entry("Zero", 0, false),
	})
	if fr.Baseline == nil || *fr.Baseline != 40 {
		t.Fatalf("baseline=%v", fr.Baseline)
	}
	if got := *fr.Entries[1].Standardized; !almost(got, 500) {
		t.Fatalf("reference std=%v", got)
	}
	if got := fr.Entries[2].Standardized; got == nil || *got != 0 {
		t.Fatalf("zero score std=%v", got)
	}
}

func TestNormalizeZeroBaseline(t *testing.T) {
	fr := Normalize("T4", []internal.Entry{entry("Alice", 0, false), entry("std", 10, true)})
	if fr.Baseline != nil {
		t.Fatalf("baseline=%v", *fr.Baseline)
	}
	for _, e := range fr.Entries {
		if e.Standardized != nil {
			t.Fatalf("%s: std=%v", e.RawName, *e.Standardized)
		}
	}
}

func TestNormalizeEmpty(t *testing.T) {
	fr := Normalize("T5", nil)
	if fr.Baseline != nil || len(fr.Entries) != 0 {
		t.Fatalf("fr=%+v", fr)
	}
}
