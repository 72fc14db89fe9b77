// Package logger provides leveled diagnostic output on top of the standard log package.
package logger

import (
	"io"
	"log"
)

// Logger writes prefixed diagnostic lines.
// Debug lines are dropped unless debug output was enabled.
type Logger struct {
	debug  bool
	logger *log.Logger
}

// New creates a logger writing to w.
func New(w io.Writer, debug bool) *Logger {
	return &Logger{
		debug:  debug,
		logger: log.New(w, "", log.LstdFlags|log.Lmsgprefix),
	}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, false)
}

// Enabled reports whether debug output is on.
func (l *Logger) Enabled() bool {
	return l != nil && l.debug
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.Enabled() {
		return
	}
	l.printf("DEBUG: ", format, args...)
}

func (l *Logger) printf(prefix, format string, args ...any) {
	l.logger.Printf(prefix+format, args...)
}
