package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the CLI configuration. Environment (including .env files) sets
// the defaults, flags override them.
type Config struct {
	CSVPath        string
	OutPath        string
	Format         string // svg, html, or empty to pick by OutPath extension
	SummaryPath    string // "-" writes the JSON summary to stdout
	CategoryColumn string
	ValueColumn    string
	HoverColumn    string
	Title          string
	XMin, XMax     float64
	Quantile       string
	Seed           int64
	LogLevel       string
}

// loadDotEnv loads each existing file in order; earlier files win because
// godotenv never overrides variables that are already set.
func loadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func loadConfigFromEnv() (Config, error) {
	csvOpts := defaultCSVOptions()
	renderOpts := defaultRenderOptions()
	cfg := Config{
		CSVPath:        os.Getenv("BOXPLOT_CSV"),
		OutPath:        envOr("BOXPLOT_OUT", "boxplot.svg"),
		Format:         os.Getenv("BOXPLOT_FORMAT"),
		SummaryPath:    os.Getenv("BOXPLOT_SUMMARY"),
		CategoryColumn: envOr("BOXPLOT_CATEGORY_COLUMN", csvOpts.CategoryColumn),
		ValueColumn:    envOr("BOXPLOT_VALUE_COLUMN", csvOpts.ValueColumn),
		HoverColumn:    os.Getenv("BOXPLOT_HOVER_COLUMN"),
		Title:          envOr("BOXPLOT_TITLE", renderOpts.Title),
		Quantile:       envOr("BOXPLOT_QUANTILE", string(quantileLinear)),
		Seed:           renderOpts.Seed,
		LogLevel:       envOr("BOXPLOT_LOG_LEVEL", "info"),
	}
	var err error
	if cfg.XMin, err = envFloat("BOXPLOT_X_MIN", 0); err != nil {
		return cfg, err
	}
	if cfg.XMax, err = envFloat("BOXPLOT_X_MAX", 0); err != nil {
		return cfg, err
	}
	if v := os.Getenv("BOXPLOT_SEED"); v != "" {
		if cfg.Seed, err = strconv.ParseInt(v, 10, 64); err != nil {
			return cfg, fmt.Errorf("BOXPLOT_SEED: %w", err)
		}
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := parseQuantileMethod(c.Quantile); err != nil {
		return err
	}
	if _, err := c.outputFormat(); err != nil {
		return err
	}
	if (c.XMin != 0 || c.XMax != 0) && c.XMax <= c.XMin {
		return fmt.Errorf("x-max (%g) must be greater than x-min (%g)", c.XMax, c.XMin)
	}
	if c.CategoryColumn == "" || c.ValueColumn == "" {
		return errors.New("category and value columns must be set")
	}
	return nil
}

// outputFormat resolves Format, falling back to the output file extension.
func (c Config) outputFormat() (string, error) {
	f := strings.ToLower(c.Format)
	if f == "" {
		switch strings.ToLower(filepath.Ext(c.OutPath)) {
		case ".html", ".htm":
			return "html", nil
		default:
			return "svg", nil
		}
	}
	if f != "svg" && f != "html" {
		return "", fmt.Errorf("unknown output format %q (want svg or html)", c.Format)
	}
	return f, nil
}

func (c Config) csvOptions() CSVOptions {
	opts := defaultCSVOptions()
	opts.CategoryColumn = c.CategoryColumn
	opts.ValueColumn = c.ValueColumn
	opts.HoverColumn = c.HoverColumn
	return opts
}

func (c Config) renderOptions() RenderOptions {
	opts := defaultRenderOptions()
	opts.Title = c.Title
	opts.XMin, opts.XMax = c.XMin, c.XMax
	opts.Seed = c.Seed
	return opts
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
