// Package logging builds the charmbracelet/log loggers used across todo.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Prefix is prepended to every line written by loggers from New.
const Prefix = "todo"

// Options holds configuration for a logger.
type Options struct {
	Level           log.Level
	Formatter       log.Formatter
	ReportTimestamp bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Level:     log.InfoLevel,
		Formatter: log.TextFormatter,
	}
}

// New creates a logger writing to w. A nil w writes to stderr.
func New(w io.Writer, opts Options) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       opts.Formatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          Prefix,
	})
}

// FromConfig creates a logger from string level and format names.
func FromConfig(w io.Writer, level, format string) *log.Logger {
	return New(w, Options{
		Level:     ParseLevel(level),
		Formatter: ParseFormatter(format),
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ParseLevel parses a level name. Unknown names map to info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// ParseFormatter parses a formatter name. Unknown names map to text.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// ValidLevel reports whether level is a name ParseLevel understands.
func ValidLevel(level string) bool {
	_, err := log.ParseLevel(level)
	return err == nil
}

// ValidFormat reports whether format is a name ParseFormatter understands.
func ValidFormat(format string) bool {
	switch format {
	case "text", "json", "logfmt":
		return true
	}
	return false
}
