package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Local development settings; real environment variables win.
	if err := loadDotEnv(".env", "../.env"); err != nil {
		log.Fatalf("error: %v", err)
	}
	cfg, err := loadConfigFromEnv()
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	var runID int64
	var service bool
	flag.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "CSV file with one sample per row (or first positional argument)")
	flag.StringVar(&cfg.OutPath, "out", cfg.OutPath, "output file, - for stdout")
	flag.StringVar(&cfg.Format, "format", cfg.Format, "output format: svg or html (default: by -out extension)")
	flag.StringVar(&cfg.SummaryPath, "summary", cfg.SummaryPath, "write per-category statistics as JSON to this file, - for stdout")
	flag.StringVar(&cfg.CategoryColumn, "category", cfg.CategoryColumn, "CSV column holding the category")
	flag.StringVar(&cfg.ValueColumn, "value", cfg.ValueColumn, "CSV column holding the numeric sample")
	flag.StringVar(&cfg.HoverColumn, "hover", cfg.HoverColumn, "CSV column used as hover text (default: the value)")
	flag.StringVar(&cfg.Title, "title", cfg.Title, "chart title")
	flag.Float64Var(&cfg.XMin, "x-min", cfg.XMin, "fixed lower bound of the x axis")
	flag.Float64Var(&cfg.XMax, "x-max", cfg.XMax, "fixed upper bound of the x axis (0 with -x-min 0 picks the domain from the data)")
	flag.StringVar(&cfg.Quantile, "quantile", cfg.Quantile, "quantile estimator: linear or r8")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for the point jitter")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Int64Var(&runID, "run-id", 0, "ID of plot_runs row to render and store")
	flag.BoolVar(&service, "service", false, "Run as background service listening to Sidekiq queue")
	flag.Parse()

	if !setLogLevel(cfg.LogLevel) {
		log.Fatalf("error: unknown log level %q", cfg.LogLevel)
	}
	if cfg.CSVPath == "" && flag.NArg() > 0 {
		cfg.CSVPath = flag.Arg(0)
	}
	if err := cfg.validate(); err != nil {
		log.Fatalf("error: %v", err)
	}

	switch {
	case service || runID != 0:
		if err := runDatabaseMode(cfg, runID, service); err != nil {
			log.Fatalf("error: %v", err)
		}
	case cfg.CSVPath != "":
		if err := runCSV(cfg); err != nil {
			log.Fatalf("error: %v", err)
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: boxplot [flags] <file.csv> | -run-id <id> | -service")
		flag.PrintDefaults()
		os.Exit(2)
	}
}

func runDatabaseMode(cfg Config, runID int64, service bool) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if service {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runService(ctx, db, cfg)
	}
	return processPlotRun(db, runID, cfg)
}

func runCSV(cfg Config) error {
	method, err := parseQuantileMethod(cfg.Quantile)
	if err != nil {
		return err
	}
	format, err := cfg.outputFormat()
	if err != nil {
		return err
	}
	groups, err := loadGroupsCSV(cfg.CSVPath, cfg.csvOptions())
	if err != nil {
		return err
	}
	summaries := summarizeGroups(groups, method)

	if cfg.SummaryPath != "" {
		if err := writeTo(cfg.SummaryPath, func(w io.Writer) error {
			return writeSummaryJSON(w, summaries)
		}); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	err = writeTo(cfg.OutPath, func(w io.Writer) error {
		if format == "html" {
			return renderHTML(w, groups, summaries, cfg.renderOptions())
		}
		_, err := renderSVG(w, groups, summaries, cfg.renderOptions())
		return err
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", cfg.OutPath, err)
	}
	infof("rendered %d categories from %s to %s (%s)", len(groups), cfg.CSVPath, cfg.OutPath, format)
	return nil
}

// writeTo opens path ("-" for stdout) and hands it to fn.
func writeTo(path string, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
