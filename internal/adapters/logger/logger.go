// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/robcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// Logger implements ports.Logger using log/slog.
type Logger struct {
	logger   *slog.Logger
	mu       sync.RWMutex
	jsonMode bool
	output   io.Writer
}

// New creates a new Logger instance writing text to stderr.
func New() *Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a Logger writing text to w.
func NewWithWriter(w io.Writer) *Logger {
	l := &Logger{}
	l.SetOutput(w)
	return l
}

var _ ports.Logger = (*Logger)(nil)

// SetOutput updates the logger's output destination, preserving the JSON mode.
// If w is nil, os.Stderr is used.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if w == nil {
		w = os.Stderr
	}
	l.output = w
	l.logger = slog.New(newHandler(w, l.jsonMode))
}

// SetJSON switches between JSON and text logging.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.jsonMode = enable
	l.logger = slog.New(newHandler(l.output, enable))
}

func newHandler(w io.Writer, json bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg, normalizeArgs(args)...)
}

// Error logs err. In text mode the zerr chain is rendered as a cause list;
// metadata attached with zerr.With is emitted as attributes in both modes.
func (l *Logger) Error(err error, args ...any) {
	if err == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	args = append(normalizeArgs(args), metadataArgs(err)...)

	if l.jsonMode {
		l.logger.Error("operation failed", append([]any{"error", err.Error()}, args...)...)
		return
	}
	l.logger.Error(formatChain(err), args...)
}

// normalizeArgs renders error values as their message so handlers do not
// have to know about zerr.
func normalizeArgs(args []any) []any {
	args = slices.Clone(args)
	for i, a := range args {
		if err, ok := a.(error); ok {
			args[i] = err.Error()
		}
	}
	return args
}

// metadataArgs collects zerr metadata along the chain, sorted by key.
// Outer values win.
func metadataArgs(err error) []any {
	meta := map[string]any{}
	for current := err; current != nil; current = errors.Unwrap(current) {
		var zErr *zerr.Error
		if !errors.As(current, &zErr) {
			break
		}
		for k, v := range zErr.Metadata() {
			if _, ok := meta[k]; !ok {
				meta[k] = v
			}
		}
		current = zErr
	}

	out := make([]any, 0, 2*len(meta))
	for _, k := range slices.Sorted(maps.Keys(meta)) {
		out = append(out, k, meta[k])
	}
	return out
}

// formatChain renders "outer: caused by inner: caused by root".
func formatChain(err error) string {
	var messages []string
	current := err

	for current != nil {
		if m, ok := current.(messager); ok {
			if msg := m.Message(); msg != "" {
				messages = append(messages, msg)
			}
			current = errors.Unwrap(current)
		} else {
			messages = append(messages, current.Error())
			break
		}
	}

	return strings.Join(messages, ": caused by ")
}
