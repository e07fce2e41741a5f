package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const reconnectDelay = 2 * time.Second

type plotResult struct {
	Summaries []GroupSummary
	SVG       string
	Err       error
}

func buildPlot(groups []Group, cfg Config, title string) plotResult {
	method, err := parseQuantileMethod(cfg.Quantile)
	if err != nil {
		return plotResult{Err: err}
	}
	summaries := summarizeGroups(groups, method)
	opts := cfg.renderOptions()
	opts.Title = title
	var buf bytes.Buffer
	if _, err := renderSVG(&buf, groups, summaries, opts); err != nil {
		return plotResult{Err: err}
	}
	return plotResult{Summaries: summaries, SVG: buf.String()}
}

func processPlotRun(db *sql.DB, runID int64, cfg Config) error {
	if !existsPlotRun(db, runID) {
		return fmt.Errorf("plot_runs id %d not found", runID)
	}
	window, err := fetchPlotWindow(db, runID)
	if err != nil {
		return fmt.Errorf("fetch plot window failed: %w", err)
	}
	groups, err := fetchGroupedSamples(db, window.Page, window.PerPage)
	if err != nil {
		return fmt.Errorf("fetch samples failed: %w", err)
	}
	if len(groups) == 0 {
		return fmt.Errorf("plot_run %d: %w", runID, errNoSamples)
	}

	result, usage := measureBuild(func() plotResult {
		return buildPlot(groups, cfg, window.Title)
	})
	if result.Err != nil {
		return fmt.Errorf("render plot_run %d: %w", runID, result.Err)
	}
	elapsed := usage.Elapsed.Seconds()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	for _, s := range result.Summaries {
		if err := insertBoxStats(tx, runID, s, elapsed, usage.PeakRSS); err != nil {
			return fmt.Errorf("insert box_stats for %q failed: %w", s.Category, err)
		}
	}
	if err := storePlotSVG(tx, runID, result.SVG); err != nil {
		return fmt.Errorf("store svg failed: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit plot_run %d: %w", runID, err)
	}
	infof("processed plot_run=%d groups=%d duration=%.6fs memory_bytes=%.0f", runID, len(result.Summaries), elapsed, usage.PeakRSS)
	return nil
}

// consumeJobs pops jobs from queue until ctx is done or the connection fails.
// handle is called with the run id of every accepted job.
func consumeJobs(ctx context.Context, q queuePopper, queue string, handle func(int64) error) error {
	for ctx.Err() == nil {
		payload, err := popJobPayload(ctx, q, queue)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return err
		}
		if payload == "" {
			continue
		}
		var job sidekiqJob
		if err := json.Unmarshal([]byte(payload), &job); err != nil {
			warnf("invalid job json: %v", err)
			continue
		}
		if !acceptedJobClass(job.Class) {
			debugf("skipping job class=%s", job.Class)
			continue
		}
		id, err := jobRunID(job)
		if err != nil {
			warnf("job %s missing plot_run_id: %v", job.JID, err)
			continue
		}
		if err := handle(id); err != nil {
			errorf("process error: %v", err)
		}
	}
	return ctx.Err()
}

func runService(ctx context.Context, db *sql.DB, cfg Config) error {
	opts, err := parseRedisURL(os.Getenv("REDIS_URL"))
	if err != nil {
		return err
	}
	client := redis.NewClient(opts)
	defer client.Close()

	queue := queueKey(os.Getenv("WORKER_QUEUE"))
	infof("worker listening on %s db=%d queue=%s", opts.Addr, opts.DB, queue)

	handle := func(id int64) error { return processPlotRun(db, id, cfg) }
	for {
		err := consumeJobs(ctx, client, queue, handle)
		if ctx.Err() != nil {
			infof("worker stopped")
			return nil
		}
		warnf("redis error: %v; retrying in %s", err, reconnectDelay)
		if !sleepCtx(ctx, reconnectDelay) {
			return nil
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
