// Package logger builds the charmbracelet/log loggers used across reelserve.
//
// Every logger writes to stderr unless told otherwise, since server mode
// owns stdout for the response stream.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a charm log with timestamps that follows the global level.
func New(prefix string) *log.Logger {
	return NewWithConfig(os.Stderr, prefix, log.GetLevel(), false, true, log.TextFormatter)
}

// NewWithConfig creates a charm log with custom config.
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Setup installs the package default logger. Debug lowers the level to
// debug and turns on timestamps, otherwise only warnings and errors show.
func Setup(debug bool) {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}
	log.SetDefault(NewWithConfig(os.Stderr, "", level, false, debug, log.TextFormatter))
}
