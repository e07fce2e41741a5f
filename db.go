package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/lib/pq"
)

func buildDSNFromEnv() (string, error) {
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	user := os.Getenv("POSTGRES_USER")
	pass := os.Getenv("POSTGRES_PASSWORD")
	dbname := os.Getenv("POSTGRES_DB")
	if dbname == "" {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			return url, nil
		}
		return "", errors.New("POSTGRES_DB not set; set env vars or DATABASE_URL")
	}
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "5432"
	}
	sslmode := envOr("POSTGRES_SSLMODE", "disable")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", host, port, user, pass, dbname, sslmode)
	return dsn, nil
}

func openDB() (*sql.DB, error) {
	dsn, err := buildDSNFromEnv()
	if err != nil {
		return nil, fmt.Errorf("database config error: %w", err)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect error: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not reachable: %w", err)
	}
	return db, nil
}

func existsPlotRun(db *sql.DB, id int64) bool {
	var exists bool
	err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM plot_runs WHERE id = $1)", id).Scan(&exists)
	return err == nil && exists
}

// plotWindow selects which slice of the samples table a plot run covers.
type plotWindow struct {
	Page    int
	PerPage int
	Title   string
}

func fetchPlotWindow(db *sql.DB, runID int64) (plotWindow, error) {
	const q = `
SELECT page, per_page, title
FROM plot_runs
WHERE id = $1
LIMIT 1`

	var page, perPage sql.NullInt64
	var title sql.NullString
	err := db.QueryRow(q, runID).Scan(&page, &perPage, &title)
	if err != nil && err != sql.ErrNoRows {
		return plotWindow{}, err
	}

	w := plotWindow{
		Page:    normalizePositiveInt(page.Int64, 1),
		PerPage: normalizePositiveInt(perPage.Int64, defaultPerPage),
		Title:   title.String,
	}
	if w.Title == "" {
		w.Title = defaultRenderOptions().Title
	}
	return w, nil
}

const defaultPerPage = 1000

func fetchGroupedSamples(db *sql.DB, page, perPage int) ([]Group, error) {
	limit, offset := windowLimitOffset(page, perPage)

	rows, err := db.Query("SELECT category, value, label FROM samples ORDER BY id ASC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var g grouper
	for rows.Next() {
		var category, label sql.NullString
		var v sql.NullFloat64
		if err := rows.Scan(&category, &v, &label); err != nil {
			return nil, err
		}
		if !v.Valid {
			continue
		}
		g.add(category.String, sampleRowPoint(v.Float64, label))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return g.groups, nil
}

func sampleRowPoint(v float64, label sql.NullString) Point {
	hover := label.String
	if !label.Valid || hover == "" {
		hover = formatTick(v)
	}
	return Point{Value: v, Hover: hover}
}

func windowLimitOffset(page, perPage int) (limit, offset int) {
	pp := perPage
	if pp <= 0 {
		pp = 1
	}
	pg := page
	if pg <= 0 {
		pg = 1
	}
	return pp, (pg - 1) * pp
}

func normalizePositiveInt(value int64, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return int(value)
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func insertBoxStats(db execer, runID int64, s GroupSummary, durationSeconds float64, memoryBytes float64) error {
	const q = `
INSERT INTO box_stats
  (plot_run_id, category, count, mean, std_dev, min, q1, median, q3, iqr,
   lower_whisker, upper_whisker, max, outliers, duration, memory, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NOW(),NOW())
`
	_, err := db.Exec(q,
		runID, s.Category, s.Count, s.Mean, s.StdDev,
		s.Box.Min, s.Box.Q1, s.Box.Median, s.Box.Q3, s.Box.IQR,
		s.Box.LowerWhisker, s.Box.UpperWhisker, s.Box.Max, pq.Array(s.Box.Outliers),
		durationSeconds, memoryBytes,
	)
	return err
}

func storePlotSVG(db execer, runID int64, svg string) error {
	_, err := db.Exec("UPDATE plot_runs SET svg = $2, updated_at = NOW() WHERE id = $1", runID, svg)
	return err
}
