package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stdscore/internal"
	"stdscore/internal/alias"
	"stdscore/internal/config"
	"stdscore/internal/listener"
	"stdscore/internal/logger"
	"stdscore/internal/pipeline"
	"stdscore/internal/report"
)

// score-watcher runs the directory watch as a long-lived process and logs
// one line per re-fold instead of redrawing a table.
func main() {
	cfg, err := config.Load()
	must(err)

	log, err := logger.New(logger.Options{JSON: cfg.LogJSON, Verbose: cfg.Verbose})
	must(err)
	defer log.Close()

	tbl, from, err := alias.FromConfig(cfg)
	must(err)
	log.Info("aliases loaded", "source", from, "entries", tbl.Len())

	proc := pipeline.NewProcessingService(cfg, tbl, log)
	svc := listener.NewService(cfg.WatchDir, cfg, proc, log, func(agg internal.Aggregate, loadErrs []error) {
		for _, err := range loadErrs {
			log.Warn("file unreadable", "error", err.Error())
		}
		for _, f := range agg.Failures {
			log.Warn("file rejected", "source", f.Source, "error", f.Err.Error())
		}
		log.Info("comparison rebuilt", "summary", report.Summary(agg))
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	must(svc.Run(ctx))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
