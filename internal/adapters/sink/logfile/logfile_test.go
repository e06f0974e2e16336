package logfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/homeval/homeval/internal/adapters/sink"
)

func TestWriteFormatsLine(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prediction_logs.log")

	l, err := New(path)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}

	rec := sink.Record{
		Timestamp:  time.Date(2026, 8, 25, 12, 0, 0, 123456789, time.UTC),
		Input:      `{"median_income":3.5}`,
		Prediction: 2.0685,
	}
	if err := l.Write(ctx, rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	want := `2026-08-25T12:00:00.123456789Z - INFO - Input: {"median_income":3.5} | Prediction: 2.0685` + "\n"
	if string(data) != want {
		t.Errorf("log line mismatch:\n got %q\nwant %q", string(data), want)
	}
}

func TestWriteAppendsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prediction_logs.log")
	rec := sink.Record{
		Timestamp:  time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Input:      `{"households":500}`,
		Prediction: 1,
	}

	for i := 0; i < 2; i++ {
		l, err := New(path)
		if err != nil {
			t.Fatalf("open sink (%d): %v", i, err)
		}
		if err := l.Write(ctx, rec); err != nil {
			t.Fatalf("Write (%d): %v", i, err)
		}
		if err := l.Close(); err != nil {
			t.Fatalf("Close (%d): %v", i, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("got %d lines after reopen, want 2", len(lines))
	}
}

func TestConcurrentWritesDoNotInterleave(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prediction_logs.log")

	l, err := New(path)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}

	const writers = 20
	const perWriter = 5
	ts := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	expected := make(map[string]bool, writers*perWriter)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				rec := sink.Record{
					Timestamp:  ts,
					Input:      fmt.Sprintf(`{"writer":%d,"seq":%d}`, w, i),
					Prediction: float64(w),
				}
				if err := l.Write(ctx, rec); err != nil {
					t.Errorf("Write: %v", err)
					return
				}
				mu.Lock()
				expected[strings.TrimRight(FormatLine(rec), "\n")] = true
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != writers*perWriter {
		t.Fatalf("got %d lines, want %d", len(lines), writers*perWriter)
	}
	for _, line := range lines {
		if !expected[line] {
			t.Errorf("unexpected or interleaved line: %q", line)
		}
	}
}

func TestWriteAfterClose(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prediction_logs.log")

	l, err := New(path)
	if err != nil {
		t.Fatalf("open sink: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Errorf("second Close: %v, want nil", err)
	}

	err = l.Write(ctx, sink.Record{Timestamp: time.Now().UTC(), Input: "{}", Prediction: 1})
	if !errors.Is(err, sink.ErrClosed) {
		t.Errorf("Write after Close: err = %v, want sink.ErrClosed", err)
	}
}

func TestNewFailsOnMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "prediction_logs.log")

	if _, err := New(path); err == nil {
		t.Error("expected error opening log in missing directory")
	}
}
