package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level describes severity of a log message.
type Level int

const (
	// LevelInfo is the default level.
	LevelInfo Level = iota
	// LevelDebug enables per-attempt output.
	LevelDebug
)

// ParseLevel converts a config string to a Level.
func ParseLevel(v string) Level {
	switch v {
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger wraps log.Logger with levels. A nil *Logger discards everything.
type Logger struct {
	logger *log.Logger
	level  Level
	file   *os.File
}

// New creates a logger writing to path, or to stderr when path is empty.
func New(prefix, path string, level Level) (*Logger, error) {
	if path == "" {
		return NewWriter(prefix, os.Stderr, level), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := NewWriter(prefix, f, level)
	l.file = f
	return l, nil
}

// NewWriter creates a logger on an arbitrary writer.
func NewWriter(prefix string, w io.Writer, level Level) *Logger {
	if prefix != "" {
		prefix += " "
	}
	return &Logger{logger: log.New(w, prefix, log.LstdFlags), level: level}
}

// Discard returns a logger that drops all output.
func Discard() *Logger {
	return NewWriter("", io.Discard, LevelInfo)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) logf(lvl Level, tag, format string, args ...any) {
	if l == nil {
		return
	}
	if lvl > l.level {
		return
	}
	l.logger.Printf("[%s] %s", tag, fmt.Sprintf(format, args...))
}

// Infof logs informational messages.
func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, "INFO", format, args...)
}

// Debugf logs verbose diagnostic messages.
func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, "DEBUG", format, args...)
}

// Errorf logs errors and warnings. They are emitted at every level.
func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelInfo, "ERROR", format, args...)
}
