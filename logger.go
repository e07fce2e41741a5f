package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

type logLevel int32

const (
	levelDebug logLevel = iota
	levelInfo
	levelWarn
	levelError
)

var levelNames = map[string]logLevel{
	"debug":   levelDebug,
	"info":    levelInfo,
	"warn":    levelWarn,
	"warning": levelWarn,
	"error":   levelError,
}

var currentLevel int32 = int32(levelInfo)

var baseLogger = log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lmicroseconds)

// setLogLevel ignores unknown names and reports whether the level changed.
func setLogLevel(s string) bool {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return false
	}
	atomic.StoreInt32(&currentLevel, int32(l))
	return true
}

func getLogLevel() logLevel { return logLevel(atomic.LoadInt32(&currentLevel)) }

func logf(l logLevel, format string, args ...interface{}) {
	if getLogLevel() > l {
		return
	}
	prefix := "INFO"
	switch l {
	case levelDebug:
		prefix = "DEBUG"
	case levelWarn:
		prefix = "WARN"
	case levelError:
		prefix = "ERROR"
	}
	baseLogger.Printf("[%s] %s", prefix, fmt.Sprintf(format, args...))
}

func debugf(format string, a ...interface{}) { logf(levelDebug, format, a...) }
func infof(format string, a ...interface{})  { logf(levelInfo, format, a...) }
func warnf(format string, a ...interface{})  { logf(levelWarn, format, a...) }
func errorf(format string, a ...interface{}) { logf(levelError, format, a...) }
