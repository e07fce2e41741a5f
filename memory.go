package main

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// buildUsage is what one plot build cost.
type buildUsage struct {
	Elapsed time.Duration
	PeakRSS float64 // bytes
}

var (
	rssBytesFunc   = rssBytes
	sampleInterval = 10 * time.Millisecond

	procStatmPath  = "/proc/self/statm"
	procStatusPath = "/proc/self/status"
)

// measureBuild times fn and samples the resident set size while it runs.
// The reading taken before fn starts counts toward the peak.
func measureBuild[T any](fn func() T) (T, buildUsage) {
	peak := rssBytesFunc()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(sampleInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if current := rssBytesFunc(); current > peak {
					peak = current
				}
			case <-stop:
				return
			}
		}
	}()

	start := time.Now()
	result := fn()
	elapsed := time.Since(start)
	close(stop)
	<-done

	if last := rssBytesFunc(); last > peak {
		peak = last
	}
	return result, buildUsage{Elapsed: elapsed, PeakRSS: peak}
}

// rssBytes reads the resident set size from procfs. Where procfs is missing
// it falls back to the memory the Go runtime holds from the OS.
func rssBytes() float64 {
	if data, err := os.ReadFile(procStatmPath); err == nil {
		if v := parseStatmRSS(string(data), os.Getpagesize()); v > 0 {
			return v
		}
	}
	if f, err := os.Open(procStatusPath); err == nil {
		defer f.Close()
		if v := parseStatusVmRSS(f); v > 0 {
			return v
		}
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.Sys)
}

// parseStatmRSS reads the second statm field, resident pages.
func parseStatmRSS(statm string, pageSize int) float64 {
	fields := strings.Fields(statm)
	if len(fields) < 2 {
		return 0
	}
	pages, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return 0
	}
	return float64(pages * uint64(pageSize))
}

func parseStatusVmRSS(r io.Reader) float64 {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			return 0
		}
		kb, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return 0
		}
		return float64(kb * 1024)
	}
	return 0
}
