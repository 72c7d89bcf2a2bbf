// Package colors provides color output utilities.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Color constants
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	debugEnabled    = false
	inErrorHandling = false
	errorMutex      sync.RWMutex
	logger          Logger
	loggerMu        sync.RWMutex

	// stdout and stderr are resolved lazily so tests can swap os.Stdout.
	stdout = func() io.Writer { return os.Stdout }
	stderr = func() io.Writer { return os.Stderr }
)

func init() {
	if val := os.Getenv("AGENCE_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// errorFallback logs an error message without using colors to avoid recursion.
func errorFallback(msg string) {
	fmt.Fprintf(os.Stderr, "%s\n", msg)
}

// emit writes a formatted line and reports write failures once, falling back
// to a plain stderr write if reporting itself fails.
func emit(w io.Writer, line, kind string, report func(...string)) {
	if _, err := fmt.Fprint(w, line); err != nil {
		errorMutex.RLock()
		alreadyHandling := inErrorHandling
		errorMutex.RUnlock()

		if alreadyHandling {
			errorFallback("failed to print " + kind + " message: " + err.Error())
			return
		}

		errorMutex.Lock()
		inErrorHandling = true
		errorMutex.Unlock()
		defer func() {
			errorMutex.Lock()
			inErrorHandling = false
			errorMutex.Unlock()
		}()
		report("failed to print " + kind + " message: " + err.Error())
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Error(msg)
	}
	emit(stderr(), fmt.Sprintf("%sError:%s %s%s\n", Red, Reset, msg, Reset), "error", Warning)
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg, "type", "success")
	}
	emit(stdout(), fmt.Sprintf("%s%s%s %s%s\n", Green, checkmark, Reset, msg, Reset), "success", Warning)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Warn(msg)
	}
	emit(stderr(), fmt.Sprintf("%sWarning:%s %s%s\n", Yellow, Reset, msg, Reset), "warning", Error)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	emit(stdout(), fmt.Sprintf("%s%s%s\n", Blue, msg, Reset), "info", Warning)
}

// LogInfo outputs an informational message to stderr, leaving stdout for
// machine-readable command output.
func LogInfo(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	emit(stderr(), fmt.Sprintf("%s%s%s\n", Blue, msg, Reset), "log info", Warning)
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	if !debugEnabled {
		return
	}
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Debug(msg)
	}
	emit(stderr(), fmt.Sprintf("%sDebug:%s %s%s\n", Cyan, Reset, msg, Reset), "debug", Warning)
}
