package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Logger writes leveled, key/value diagnostics. A nil *Logger is valid and
// discards everything, so callers never need to guard their log lines.
type Logger struct {
	log *charmlog.Logger
}

// New creates a logger that writes to w at the named level
// (debug, info, warn, error). An empty level means info.
func New(w io.Writer, level string) (*Logger, error) {
	lvl := charmlog.InfoLevel
	if trimmed := strings.TrimSpace(level); trimmed != "" {
		parsed, err := charmlog.ParseLevel(strings.ToLower(trimmed))
		if err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
		lvl = parsed
	}
	l := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           lvl,
		Prefix:          "composer-fixer",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return &Logger{log: l}, nil
}

// With returns a child logger that prefixes every line with keyvals.
func (l *Logger) With(keyvals ...any) *Logger {
	if l == nil || l.log == nil {
		return nil
	}
	return &Logger{log: l.log.With(keyvals...)}
}

// Debug logs diagnostics that only matter when tracing a run.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Debug(msg, keyvals...)
}

// Info logs normal progress.
func (l *Logger) Info(msg string, keyvals ...any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Info(msg, keyvals...)
}

// Warn logs conditions that do not stop the run but likely need attention.
func (l *Logger) Warn(msg string, keyvals ...any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Warn(msg, keyvals...)
}

// Error logs a failure that stops the run.
func (l *Logger) Error(msg string, keyvals ...any) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Error(msg, keyvals...)
}
