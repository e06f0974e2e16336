// Package logfile appends served predictions to a plain-text audit log.
package logfile

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/homeval/homeval/internal/adapters/sink"
)

// Name is the sink identifier used in logs and metrics.
const Name = "logfile"

// Logfile is an append-only file sink. Each record is one whole line written
// and synced under a mutex, so concurrent records never interleave and an
// acknowledged record survives a process crash.
type Logfile struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	closed bool
}

// New opens the audit log at path for appending, creating it when missing.
func New(path string) (*Logfile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logfile sink: open %s: %w", path, err)
	}
	return &Logfile{f: f, path: path}, nil
}

// Name implements sink.Sink.
func (l *Logfile) Name() string { return Name }

// Write appends one formatted audit line.
func (l *Logfile) Write(_ context.Context, rec sink.Record) error {
	line := FormatLine(rec)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("logfile sink: %w", sink.ErrClosed)
	}
	if _, err := l.f.WriteString(line); err != nil {
		return fmt.Errorf("logfile sink: write: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("logfile sink: sync: %w", err)
	}
	return nil
}

// FormatLine renders the audit line for one record:
//
//	<RFC3339Nano UTC> - INFO - Input: <payload JSON> | Prediction: <value>
func FormatLine(rec sink.Record) string {
	return fmt.Sprintf("%s - INFO - Input: %s | Prediction: %s\n",
		rec.Timestamp.UTC().Format(sink.TimestampLayout),
		rec.Input,
		sink.FormatPrediction(rec.Prediction))
}

// Close syncs and closes the file. Writes after Close fail with
// sink.ErrClosed.
func (l *Logfile) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if err := l.f.Sync(); err != nil {
		_ = l.f.Close()
		return fmt.Errorf("logfile sink: sync: %w", err)
	}
	return l.f.Close()
}
