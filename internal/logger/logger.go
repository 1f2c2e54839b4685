// Package logger provides the process-wide logger for stackdist.
//
// The package exposes a printf-style API (Info, Debug, Warn, Error) backed by
// a zerolog.Logger. Output goes to stderr so that stdout stays reserved for
// the wrapped server process and for generated artifacts printed by the CLI.
//
// Example:
//
//	logger.SetDebug(opts.Verbose)
//	logger.Info("Resolved run configuration: %s", ref)
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.RWMutex
	base = newLogger(os.Stderr)
)

// newLogger builds a console-formatted zerolog.Logger writing to w.
func newLogger(w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(console).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}

// SetOutput redirects all log output to w, keeping the current level.
//
// Tests use this to capture log lines; the CLI never calls it.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	level := base.GetLevel()
	base = newLogger(w).Level(level)
}

// SetDebug toggles debug-level output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		base = base.Level(zerolog.DebugLevel)
		return
	}
	base = base.Level(zerolog.InfoLevel)
}

// IsDebug reports whether debug-level output is enabled.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return base.GetLevel() <= zerolog.DebugLevel
}

// With returns a child zerolog.Logger carrying the given component name.
//
// Packages that log structured fields (container IDs, file paths) use this
// instead of the printf helpers.
func With(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base.With().Str("component", component).Logger()
}

// Debug logs a formatted message at debug level.
func Debug(format string, args ...interface{}) {
	emit(zerolog.DebugLevel, format, args...)
}

// Info logs a formatted message at info level.
func Info(format string, args ...interface{}) {
	emit(zerolog.InfoLevel, format, args...)
}

// Warn logs a formatted message at warn level.
func Warn(format string, args ...interface{}) {
	emit(zerolog.WarnLevel, format, args...)
}

// Error logs a formatted message at error level.
func Error(format string, args ...interface{}) {
	emit(zerolog.ErrorLevel, format, args...)
}

func emit(level zerolog.Level, format string, args ...interface{}) {
	mu.RLock()
	l := base
	mu.RUnlock()
	l.WithLevel(level).Msg(fmt.Sprintf(format, args...))
}
