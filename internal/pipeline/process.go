package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"stdscore/internal"
	"stdscore/internal/config"
)

// Document is one input: HTML content plus the label it is shown under.
type Document struct {
	Source  string
	Content []byte
}

type ProcessingService struct {
	resolver Resolver
	locator  Locator
	workers  int
	log      Logger
}

func NewProcessingService(cfg config.Config, resolver Resolver, log Logger) *ProcessingService {
	if log == nil {
		log = nopLogger{}
	}
	workers := cfg.ParseWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ProcessingService{
		resolver: resolver,
		locator:  NewLocator(cfg.TableSelector, cfg.TableParagraphIndex),
		workers:  workers,
		log:      log,
	}
}

// ParseDocument runs locate, row parsing and normalization for one
// document. Skipped rows end up in the result's diagnostics; only a
// missing table or unreadable HTML is an error.
func (s *ProcessingService) ParseDocument(doc Document) (internal.FileResult, error) {
	parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(doc.Content))
	if err != nil {
		return internal.FileResult{}, fmt.Errorf("read html: %w", err)
	}
	table, err := s.locator.Locate(parsed)
	if err != nil {
		return internal.FileResult{}, err
	}

	var entries []internal.Entry
	var skipped []internal.Diagnostic
	for entry, err := range ParseRows(table, s.resolver) {
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				skipped = append(skipped, internal.Diagnostic{
					Kind:   internal.DiagRowSkipped,
					Source: doc.Source,
					Row:    rowErr.Row,
					Name:   rowErr.Name,
					Detail: rowErr.Reason,
				})
			}
			continue
		}
		entries = append(entries, entry)
	}

	result := Normalize(doc.Source, entries)
	result.Diagnostics = append(skipped, result.Diagnostics...)
	return result, nil
}

// Process parses docs in parallel and folds the results in input order.
// Files that fail to parse are reported in Failures and do not stop the
// others.
func (s *ProcessingService) Process(ctx context.Context, docs []Document) (internal.Aggregate, error) {
	start := time.Now()
	runID := uuid.NewString()

	type outcome struct {
		result internal.FileResult
		err    error
	}
	outcomes := make([]outcome, len(docs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < min(s.workers, len(docs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				res, err := s.ParseDocument(docs[i])
				outcomes[i] = outcome{result: res, err: err}
			}
		}()
	}

	var ctxErr error
dispatch:
	for i := range docs {
		if err := ctx.Err(); err != nil {
			ctxErr = err
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if ctxErr != nil {
		return internal.Aggregate{}, ctxErr
	}

	agg := NewAggregator(s.resolver)
	var failures []internal.FileError
	for i, o := range outcomes {
		if o.err != nil {
			failures = append(failures, internal.FileError{Source: docs[i].Source, Err: o.err})
			s.log.Warn("file rejected", "run", runID, "source", docs[i].Source, "error", o.err.Error())
			continue
		}
		s.log.Debug("file parsed", "run", runID, "source", o.result.Source, "entries", len(o.result.Entries), "baseline", baselineField(o.result.Baseline))
		agg.Add(o.result)
	}

	out := agg.Result()
	for _, f := range failures {
		if !errors.Is(f.Err, ErrTableNotFound) {
			continue
		}
		out.Diagnostics = append(out.Diagnostics, internal.Diagnostic{
			Kind:   internal.DiagTableNotFound,
			Source: f.Source,
			Detail: f.Err.Error(),
		})
	}
	out.Failures = failures

	s.log.Info("run done", "run", runID, "files", len(docs), "failed", len(failures), "rows", len(out.Rows), "diagnostics", len(out.Diagnostics), "ms", time.Since(start).Milliseconds())
	return out, nil
}

func baselineField(v *float64) any {
	if v == nil {
		return "none"
	}
	return *v
}
