package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"

	"stdscore/internal"
	"stdscore/internal/alias"
	"stdscore/internal/config"
	"stdscore/internal/listener"
	"stdscore/internal/logger"
	"stdscore/internal/pipeline"
	"stdscore/internal/report"
	"stdscore/internal/source"
	"stdscore/internal/storage"
)

func main() {
	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	log, err := logger.New(logger.Options{JSON: cfg.LogJSON, Verbose: cfg.Verbose})
	must(err)
	defer log.Close()

	cmd := os.Args[1]
	switch cmd {
	case "compare":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		precision := fs.Int("precision", cfg.ScorePrecision, "decimal places")
		sortBy := fs.String("sort", "avg", "name|avg|std:<file>|raw:<file>")
		asc := fs.Bool("asc", false, "ascending order")
		_ = fs.Parse(os.Args[2:])
		if fs.NArg() == 0 {
			must(fmt.Errorf("at least one html file or url is required"))
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		proc := newProcessor(cfg, log)
		docs, loadErrs := source.Load(ctx, fs.Args(), source.NewFetcher(cfg))
		agg, err := proc.Process(ctx, docs)
		must(err)
		key, err := report.ParseKey(*sortBy, agg.Sources)
		must(err)
		present(agg, loadErrs, report.Options{Precision: *precision, Key: key, Desc: !*asc, Styled: stdoutIsTerminal()}, log)
	case "watch":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		dir := fs.String("dir", cfg.WatchDir, "directory with html files")
		precision := fs.Int("precision", cfg.ScorePrecision, "decimal places")
		sortBy := fs.String("sort", "avg", "name|avg|std:<file>|raw:<file>")
		asc := fs.Bool("asc", false, "ascending order")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*dir) == "" {
			must(fmt.Errorf("--dir is required"))
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		styled := stdoutIsTerminal()
		svc := listener.NewService(*dir, cfg, newProcessor(cfg, log), log, func(agg internal.Aggregate, loadErrs []error) {
			key, err := report.ParseKey(*sortBy, agg.Sources)
			if err != nil {
				log.Warn("sort key not usable, sorting by average", "error", err.Error())
				key = report.Key{Field: report.KeyAverage}
			}
			if styled {
				fmt.Print("\033[H\033[2J")
			}
			present(agg, loadErrs, report.Options{Precision: *precision, Key: key, Desc: !*asc, Styled: styled}, log)
		})
		must(svc.Run(ctx))
	case "aliases:import":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		file := fs.String("file", cfg.AliasFile, "alias toml file")
		_ = fs.Parse(os.Args[2:])
		must(cfg.Require("--file", *file))
		count, err := alias.Import(*file, cfg.AliasDBPath)
		must(err)
		fmt.Printf("aliases imported: %d entries into %s\n", count, cfg.AliasDBPath)
	case "aliases:list":
		tbl, from, err := alias.FromConfig(cfg)
		must(err)
		fmt.Printf("aliases from %s (%d entries)\n", from, tbl.Len())
		for _, e := range tbl.Entries() {
			fmt.Printf("  %s => %s\n", e.Key, e.Display)
		}
		if strings.HasPrefix(from, "db:") {
			printImportOrigin(cfg.AliasDBPath)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func newProcessor(cfg config.Config, log *logger.Logger) *pipeline.ProcessingService {
	tbl, from, err := alias.FromConfig(cfg)
	must(err)
	log.Debug("aliases loaded", "source", from, "entries", tbl.Len())
	return pipeline.NewProcessingService(cfg, tbl, log)
}

func present(agg internal.Aggregate, loadErrs []error, opts report.Options, log *logger.Logger) {
	for _, err := range loadErrs {
		fmt.Fprintf(os.Stderr, "could not read file: %v\n", err)
	}
	for _, f := range agg.Failures {
		fmt.Fprintln(os.Stderr, f.Error())
	}
	for _, d := range agg.Diagnostics {
		switch d.Kind {
		case internal.DiagTableNotFound:
			// already reported as a failure
		case internal.DiagRowSkipped:
			log.Info("row skipped", "source", d.Source, "row", d.Row, "name", d.Name, "reason", d.Detail)
		default:
			log.Warn(string(d.Kind), "source", d.Source, "row", d.Row, "name", d.Name, "detail", d.Detail)
		}
	}

	if len(agg.Sources) == 0 {
		fmt.Println("no score tables loaded")
		return
	}
	fmt.Println(report.Render(agg, opts))
	fmt.Println(report.Summary(agg))
}

func printImportOrigin(dbPath string) {
	db, err := storage.Open(dbPath)
	if err != nil {
		return
	}
	defer db.Close()
	if origin, err := db.GetMetadata("aliases.imported_from"); err == nil && origin != nil {
		fmt.Printf("imported from %s\n", *origin)
	}
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func usage() {
	fmt.Println("usage: stdscore <command>")
	fmt.Println("commands:")
	fmt.Println("  compare [--precision=2] [--sort=avg|name|std:<file>|raw:<file>] [--asc] FILE|URL...")
	fmt.Println("  watch --dir=./scores [--precision=2] [--sort=avg] [--asc]")
	fmt.Println("  aliases:import --file=aliases.toml")
	fmt.Println("  aliases:list")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
