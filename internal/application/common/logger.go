package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger provides structured logging for tool and cache operations.
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

// Context keys for passing logger through context
type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

// noOpLogger is a logger that does nothing (fallback when no logger in context)
type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {
	// Do nothing
}

// NoOpLogger returns a logger that discards everything.
func NoOpLogger() Logger {
	return &noOpLogger{}
}

// logLevels orders levels for filtering.
var logLevels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

// WriterLogger writes one JSON object per line to an io.Writer. The MCP
// transport owns stdout, so the server logs to stderr.
type WriterLogger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel int
}

// NewStderrLogger creates a logger writing JSON lines to stderr, dropping
// entries below minLevel.
func NewStderrLogger(minLevel string) *WriterLogger {
	return NewWriterLogger(os.Stderr, minLevel)
}

// NewWriterLogger creates a logger writing JSON lines to out.
func NewWriterLogger(out io.Writer, minLevel string) *WriterLogger {
	threshold, ok := logLevels[minLevel]
	if !ok {
		threshold = logLevels["info"]
	}
	return &WriterLogger{out: out, minLevel: threshold}
}

func (l *WriterLogger) Log(level, message string, metadata map[string]interface{}) {
	rank, ok := logLevels[level]
	if !ok {
		rank = logLevels["info"]
	}
	if rank < l.minLevel {
		return
	}

	entry := map[string]interface{}{
		"time":    time.Now().UTC().Format(time.RFC3339),
		"level":   level,
		"message": message,
	}
	for k, v := range metadata {
		entry[k] = v
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"error","message":"log marshal failed: %v"}`, err))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(append(data, '\n'))
}
