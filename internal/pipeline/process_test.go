package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"stdscore/internal"
	"stdscore/internal/alias"
	"stdscore/internal/config"
)

func loadFixtures(t *testing.T, names ...string) []Document {
	t.Helper()
	docs := make([]Document, 0, len(names))
	for _, name := range names {
		blob, err := os.ReadFile(filepath.Join("testdata", name))
		if err != nil {
			t.Fatal(err)
		}
		docs = append(docs, Document{Source: name, Content: blob})
	}
	return docs
}

func newService(t *testing.T) *ProcessingService {
	t.Helper()
	tbl, err := alias.Default()
	if err != nil {
		t.Fatal(err)
	}
	return NewProcessingService(config.Config{TableParagraphIndex: 2, ParseWorkers: 4}, tbl, nil)
}

func TestProcessTwoRounds(t *testing.T) {
	svc := newService(t)
	docs := loadFixtures(t, "round1.html", "round2.html", "broken.html")

	res, err := svc.Process(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(res.Sources, []string{"round1.html", "round2.html"}) {
		t.Fatalf("sources=%v", res.Sources)
	}
	if len(res.Failures) != 1 || res.Failures[0].Source != "broken.html" || !errors.Is(res.Failures[0].Err, ErrTableNotFound) {
		t.Fatalf("failures=%v", res.Failures)
	}

	rows := map[string]internal.AggregateRow{}
	for _, r := range res.Rows {
		rows[r.Name] = r
	}

	alice := rows["Alice"]
	if alice.Average == nil || !almost(*alice.Average, 70) {
		t.Fatalf("alice average=%v", alice.Average)
	}
	// Alias from the embedded table, non-Latin display name kept verbatim.
	wht, ok := rows["CQYC-王鸿天"]
	if !ok {
		t.Fatalf("alias not applied, rows=%v", res.Rows)
	}
	if s, ok := wht.Score("round2.html"); !ok || s.Raw != 100 {
		t.Fatalf("wht round2=%+v", s)
	}
	std, ok := rows["std"]
	if !ok {
		t.Fatal("reference row missing")
	}
	if s, _ := std.Score("round1.html"); s.Standardized == nil || !almost(*s.Standardized, 120) {
		t.Fatalf("std round1=%+v", s)
	}

	kinds := map[internal.DiagnosticKind]int{}
	for _, d := range res.Diagnostics {
		kinds[d.Kind]++
	}
	if kinds[internal.DiagRowSkipped] != 1 || kinds[internal.DiagTableNotFound] != 1 {
		t.Fatalf("diagnostics=%v", res.Diagnostics)
	}
}

func TestProcessDeterministic(t *testing.T) {
	svc := newService(t)
	docs := loadFixtures(t, "round1.html", "round2.html", "reference_only.html")

	first, err := svc.Process(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := svc.Process(context.Background(), docs)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestProcessReferenceOnlyFile(t *testing.T) {
	svc := newService(t)
	res, err := svc.Process(context.Background(), loadFixtures(t, "reference_only.html"))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 1 {
		t.Fatalf("rows=%v", res.Rows)
	}
	s, _ := res.Rows[0].Score("reference_only.html")
	if s.Standardized != nil || s.Raw != 90 || res.Rows[0].Average != nil {
		t.Fatalf("row=%+v", res.Rows[0])
	}
}

func TestProcessNoDocuments(t *testing.T) {
	res, err := newService(t).Process(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 0 || len(res.Failures) != 0 {
		t.Fatalf("res=%+v", res)
	}
}

func TestProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newService(t).Process(ctx, loadFixtures(t, "round1.html"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v", err)
	}
}
