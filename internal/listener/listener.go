package listener

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"stdscore/internal"
	"stdscore/internal/config"
	"stdscore/internal/pipeline"
	"stdscore/internal/source"
)

type Logger interface {
	pipeline.Logger
	Error(msg string, keysAndValues ...any)
}

// Service watches a directory of score pages and rebuilds the comparison
// from scratch whenever a page is added, changed or removed.
type Service struct {
	dir       string
	cfg       config.Config
	processor *pipeline.ProcessingService
	log       Logger
	onResult  func(internal.Aggregate, []error)
}

func NewService(dir string, cfg config.Config, processor *pipeline.ProcessingService, log Logger, onResult func(internal.Aggregate, []error)) *Service {
	return &Service{dir: dir, cfg: cfg, processor: processor, log: log, onResult: onResult}
}

func (s *Service) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return err
	}

	if err := s.runCycle(ctx); err != nil {
		s.log.Error("listener cycle error", "error", err.Error())
	}

	// Reset drops stale ticks (Go 1.23 timer semantics), so bursts of
	// events collapse into one cycle.
	debounce := time.Duration(s.cfg.WatchDebounceMs) * time.Millisecond
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			s.log.Debug("change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", "error", err.Error())
		case <-timer.C:
			if err := s.runCycle(ctx); err != nil {
				s.log.Error("listener cycle error", "error", err.Error())
			}
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	paths, err := source.ListDir(s.dir)
	if err != nil {
		return err
	}
	docs, loadErrs := source.LoadFiles(paths)
	agg, err := s.processor.Process(ctx, docs)
	if err != nil {
		return err
	}
	s.log.Info("listener cycle done", "dir", s.dir, "files", len(paths), "unreadable", len(loadErrs), "rows", len(agg.Rows))
	if s.onResult != nil {
		s.onResult(agg, loadErrs)
	}
	return nil
}

func relevant(event fsnotify.Event) bool {
	if !source.Supported(event.Name) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
