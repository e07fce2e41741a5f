package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"BOXPLOT_CSV", "BOXPLOT_OUT", "BOXPLOT_FORMAT", "BOXPLOT_CATEGORY_COLUMN",
		"BOXPLOT_VALUE_COLUMN", "BOXPLOT_TITLE", "BOXPLOT_X_MIN", "BOXPLOT_X_MAX", "BOXPLOT_SEED",
		"BOXPLOT_QUANTILE", "BOXPLOT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfigFromEnv()
	if err != nil {
		t.Fatalf("loadConfigFromEnv returned error: %v", err)
	}
	if cfg.OutPath != "boxplot.svg" || cfg.CategoryColumn != "playerList" || cfg.ValueColumn != "goals" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if cfg.Quantile != "linear" || cfg.Seed != 1 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("BOXPLOT_CSV", "data/season.csv")
	t.Setenv("BOXPLOT_OUT", "out/season.html")
	t.Setenv("BOXPLOT_CATEGORY_COLUMN", "team")
	t.Setenv("BOXPLOT_VALUE_COLUMN", "points")
	t.Setenv("BOXPLOT_X_MIN", "-5")
	t.Setenv("BOXPLOT_X_MAX", "120.5")
	t.Setenv("BOXPLOT_SEED", "99")
	t.Setenv("BOXPLOT_QUANTILE", "r8")

	cfg, err := loadConfigFromEnv()
	if err != nil {
		t.Fatalf("loadConfigFromEnv returned error: %v", err)
	}
	if cfg.CSVPath != "data/season.csv" || cfg.CategoryColumn != "team" || cfg.ValueColumn != "points" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
	if cfg.XMin != -5 || cfg.XMax != 120.5 || cfg.Seed != 99 {
		t.Fatalf("unexpected numeric config: %#v", cfg)
	}
	if f, err := cfg.outputFormat(); err != nil || f != "html" {
		t.Fatalf("expected html from extension, got %q %v", f, err)
	}
	ro := cfg.renderOptions()
	if ro.XMin != -5 || ro.XMax != 120.5 || ro.Seed != 99 {
		t.Fatalf("render options not carried over: %#v", ro)
	}
	if co := cfg.csvOptions(); co.CategoryColumn != "team" || co.ValueColumn != "points" {
		t.Fatalf("csv options not carried over: %#v", co)
	}
}

func TestLoadConfigFromEnvInvalidNumbers(t *testing.T) {
	t.Setenv("BOXPLOT_X_MIN", "zero")
	if _, err := loadConfigFromEnv(); err == nil {
		t.Fatalf("expected error for bad BOXPLOT_X_MIN")
	}

	t.Setenv("BOXPLOT_X_MIN", "")
	t.Setenv("BOXPLOT_SEED", "1.5")
	if _, err := loadConfigFromEnv(); err == nil {
		t.Fatalf("expected error for bad BOXPLOT_SEED")
	}
}

func TestConfigValidate(t *testing.T) {
	base := Config{OutPath: "a.svg", CategoryColumn: "c", ValueColumn: "v", Quantile: "linear"}

	bad := base
	bad.Format = "png"
	if err := bad.validate(); err == nil {
		t.Fatalf("expected error for png format")
	}
	bad = base
	bad.Quantile = "r6"
	if err := bad.validate(); err == nil {
		t.Fatalf("expected error for unknown quantile")
	}
	bad = base
	bad.XMin, bad.XMax = 10, 10
	if err := bad.validate(); err == nil {
		t.Fatalf("expected error for empty x domain")
	}
	bad = base
	bad.ValueColumn = ""
	if err := bad.validate(); err == nil {
		t.Fatalf("expected error for missing value column")
	}
	if f, _ := base.outputFormat(); f != "svg" {
		t.Fatalf("expected svg for .svg output, got %q", f)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("BOXPLOT_TEST_DOTENV=from-file\nBOXPLOT_TEST_DOTENV_KEEP=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("BOXPLOT_TEST_DOTENV_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("BOXPLOT_TEST_DOTENV") })

	if err := loadDotEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("loadDotEnv returned error: %v", err)
	}
	if got := os.Getenv("BOXPLOT_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
	if got := os.Getenv("BOXPLOT_TEST_DOTENV_KEEP"); got != "from-env" {
		t.Fatalf("existing env must win, got %q", got)
	}
}
