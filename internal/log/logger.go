// Package log provides the process-wide structured logger.
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	logger     = zerolog.Nop()
	loggerLock sync.RWMutex
)

// Setup installs the process logger.
// With debug set, output is human-readable at debug level;
// otherwise JSON lines at info level.
func Setup(w io.Writer, debug bool) {
	var l zerolog.Logger
	if debug {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
		}).Level(zerolog.DebugLevel)
	} else {
		l = zerolog.New(w).Level(zerolog.InfoLevel)
	}

	loggerLock.Lock()
	logger = l.With().Timestamp().Logger()
	loggerLock.Unlock()
}

// OpenFile opens (creating if needed) an append-only log file with mode 0600.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

// Disable discards all log output.
func Disable() {
	loggerLock.Lock()
	logger = zerolog.Nop()
	loggerLock.Unlock()
}

// SetLevel changes the level of the installed logger. Unknown names mean info.
func SetLevel(levelStr string) {
	level := parseLogLevel(levelStr)
	loggerLock.Lock()
	logger = logger.Level(level)
	loggerLock.Unlock()
}

// parseLogLevel converts a string log level to zerolog.Level
func parseLogLevel(levelStr string) zerolog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func current() *zerolog.Logger {
	loggerLock.RLock()
	defer loggerLock.RUnlock()
	l := logger
	return &l
}

// Debug logs a debug message
func Debug() *zerolog.Event {
	return current().Debug()
}

// Info logs an info message
func Info() *zerolog.Event {
	return current().Info()
}

// Warn logs a warning message
func Warn() *zerolog.Event {
	return current().Warn()
}

// Error logs an error message
func Error() *zerolog.Event {
	return current().Error()
}
