package dlog

import (
	"fmt"
	"log"
)

// Logger is a debug logger for a standard library logger writing to a
// Console.  Output is emitted only when verbosity is positive.
type Logger struct {
	console   *Console
	logger    *log.Logger
	verbosity int
}

// NewLogger returns a logger writing to console with the given prefix.
func NewLogger(console *Console, prefix string, verbosity int) *Logger {
	return &Logger{
		console:   console,
		logger:    log.New(console, prefix, log.LstdFlags),
		verbosity: verbosity,
	}
}

// Debugf logs only at verbosity 1 and above.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.verbosity < 1 {
		return
	}
	_ = l.logger.Output(2, "DEBUG "+fmt.Sprintf(format, args...))
}

// Close flushes and stops the underlying console.
func (l *Logger) Close() error {
	return l.console.Close()
}
