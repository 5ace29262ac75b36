// Package logger builds prefixed charm loggers for the long-lived parts of the
// server. Stdout carries IPC frames, so every logger writes to stderr.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a charm logger that follows the global log level.
func New(prefix string) *log.Logger {
	return NewWithConfig(prefix, log.GetLevel(), false, log.GetLevel() <= log.DebugLevel, log.TextFormatter)
}

// NewWithConfig creates a charm logger with custom config.
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return NewTo(os.Stderr, prefix, level, caller, showTimestamp, fmt)
}

// NewTo is NewWithConfig with an explicit destination.
func NewTo(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Discard returns a logger that drops everything, for tests and embedding.
func Discard() *log.Logger {
	return NewTo(io.Discard, "", log.FatalLevel, false, false, log.TextFormatter)
}
