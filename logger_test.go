package main

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	saved := baseLogger
	savedLevel := getLogLevel()
	baseLogger = log.New(&buf, "", 0)
	t.Cleanup(func() {
		baseLogger = saved
		setLogLevel(levelNameFor(savedLevel))
	})
	setLogLevel(level)
	return &buf
}

func levelNameFor(l logLevel) string {
	for name, v := range levelNames {
		if v == l && name != "warning" {
			return name
		}
	}
	return "info"
}

func TestInfofKeepsLiteralPercentInArgs(t *testing.T) {
	buf := captureLog(t, "info")

	msg := "group goals: 100% of rows parsed"
	infof("%s", msg)

	out := buf.String()
	if !strings.Contains(out, "[INFO] group goals: 100% of rows parsed") {
		t.Fatalf("unexpected log output: %q", out)
	}
	if strings.Contains(out, "MISSING") {
		t.Fatalf("log output shows fmt artifact: %q", out)
	}
}

func TestLogLevelFiltering(t *testing.T) {
	buf := captureLog(t, "warn")

	debugf("hidden %d", 1)
	infof("hidden %d", 2)
	warnf("shown %d", 3)
	errorf("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected debug/info to be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Fatalf("missing warn/error lines: %q", out)
	}
}

func TestSetLogLevelRejectsUnknown(t *testing.T) {
	captureLog(t, "info")
	if setLogLevel("chatty") {
		t.Fatalf("expected unknown level to be rejected")
	}
	if getLogLevel() != levelInfo {
		t.Fatalf("level changed after rejected name: %v", getLogLevel())
	}
	if !setLogLevel(" DEBUG ") {
		t.Fatalf("expected case-insensitive level name")
	}
}
