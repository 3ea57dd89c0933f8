package log

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = NewZerologLogger(zerolog.ConsoleWriter{Out: os.Stderr}, LevelWarn)
)

// GetLogger returns the process-wide default logger.
func GetLogger() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the process-wide default logger.
func SetLogger(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Setup configures the default logger and routes library warnings through it.
// format is "json" or "console".
func Setup(level, format string, w io.Writer) (Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = os.Stderr
	}

	var out io.Writer
	switch strings.ToLower(format) {
	case "json":
		out = w
	case "", "console", "text":
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	default:
		return nil, errors.NewValidationError("log.format", "must be one of json, console", format)
	}

	logger := NewZerologLogger(out, lvl)
	SetLogger(logger)
	errors.SetZerologWarnFunc(func(warning error) {
		logger.Warn(warning.Error(), "warning", warning)
	})
	return logger, nil
}

// ParseLevel converts a textual level ("debug", "info", "warn", "error") into a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, errors.NewValidationError("log.level", "must be one of debug, info, warn, error", level)
	}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return FromZerolog(zerolog.Nop())
}
