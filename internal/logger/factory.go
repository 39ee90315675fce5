package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// Default creates a component logger without timestamps that follows the
// global level.
func Default(prefix string) *log.Logger {
	l := New(prefix)
	l.SetReportTimestamp(false)
	return l
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *log.Logger {
	return NewWithConfig(io.Discard, "", log.FatalLevel, false, false, log.TextFormatter)
}
