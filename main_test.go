package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const seasonCSV = `playerList,goals,game
Anna,1,g1
Bert,10,g1
Anna,2,g2
Bert,12,g2
Anna,3,g3
Bert,14,g3
Anna,4,g4
Anna,5,g5
Anna,100,g6
`

func writeSeason(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "season.csv")
	if err := os.WriteFile(path, []byte(seasonCSV), 0o600); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return dir, path
}

func TestRunCSVWritesSVGAndSummary(t *testing.T) {
	dir, path := writeSeason(t)
	cfg := Config{
		CSVPath:        path,
		OutPath:        filepath.Join(dir, "out.svg"),
		SummaryPath:    filepath.Join(dir, "summary.json"),
		CategoryColumn: "playerList",
		ValueColumn:    "goals",
		Title:          "Season",
		Quantile:       "linear",
		Seed:           1,
	}
	if err := runCSV(cfg); err != nil {
		t.Fatalf("runCSV error: %v", err)
	}

	svg, err := os.ReadFile(cfg.OutPath)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.HasPrefix(string(svg), "<svg") || countClass(string(svg), "category-label") != 2 {
		t.Fatalf("unexpected svg output: %.120s", svg)
	}

	raw, err := os.ReadFile(cfg.SummaryPath)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	var summaries []GroupSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		t.Fatalf("summary is not json: %v", err)
	}
	if len(summaries) != 2 || summaries[0].Category != "Anna" || summaries[1].Category != "Bert" {
		t.Fatalf("unexpected summaries: %#v", summaries)
	}
	if got := summaries[0].Box.Outliers; len(got) != 1 || got[0] != 100 {
		t.Fatalf("expected Anna's 100 as outlier, got %v", got)
	}
}

func TestRunCSVWritesHTML(t *testing.T) {
	dir, path := writeSeason(t)
	cfg := Config{
		CSVPath:        path,
		OutPath:        filepath.Join(dir, "out.html"),
		CategoryColumn: "playerList",
		ValueColumn:    "goals",
		HoverColumn:    "game",
		Title:          "Season",
		Quantile:       "r8",
		Seed:           1,
	}
	if err := runCSV(cfg); err != nil {
		t.Fatalf("runCSV error: %v", err)
	}
	page, err := os.ReadFile(cfg.OutPath)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if !strings.Contains(string(page), "<svg") || !strings.Contains(string(page), `"label":"g6"`) {
		t.Fatalf("html page missing svg or hover labels")
	}
}

func TestRunCSVReportsMissingColumn(t *testing.T) {
	dir, path := writeSeason(t)
	cfg := Config{
		CSVPath:        path,
		OutPath:        filepath.Join(dir, "out.svg"),
		CategoryColumn: "team",
		ValueColumn:    "goals",
		Quantile:       "linear",
	}
	if err := runCSV(cfg); err == nil {
		t.Fatalf("expected error for unknown category column")
	}
	if _, err := os.Stat(cfg.OutPath); !os.IsNotExist(err) {
		t.Fatalf("no output should be created when loading fails")
	}
}
