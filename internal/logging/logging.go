// Package logging writes warnings and the optional debug streams to stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Debug stream names.
const (
	StreamDetection    = "detection"
	StreamVerification = "verification"
)

// Logger is safe for concurrent use. A nil *Logger discards everything.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	debug bool
}

// New creates a logger writing to stderr.
func New(debug bool) *Logger {
	return NewWithWriter(os.Stderr, debug)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, debug bool) *Logger {
	return &Logger{out: w, debug: debug}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return NewWithWriter(io.Discard, false)
}

// DebugEnabled reports whether debug streams are written.
func (l *Logger) DebugEnabled() bool {
	return l != nil && l.debug
}

// Warnf writes a warning. Warnings are always written.
func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, color.YellowString("Warning: ")+msg)
}

// Debugf writes a line to the named debug stream when debug is enabled.
func (l *Logger) Debugf(stream, format string, args ...any) {
	if !l.DebugEnabled() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s\n", color.CyanString("[%s]", stream), msg)
}
