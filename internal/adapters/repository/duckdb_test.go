package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *DuckDB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predictions.db")
	store, err := New(context.Background(), path, WithThreads(2))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInsertAndCount(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	count, err := store.CountPredictions(ctx)
	if err != nil {
		t.Fatalf("CountPredictions on empty store: %v", err)
	}
	if count != 0 {
		t.Fatalf("empty store count = %d, want 0", count)
	}

	rows := []PredictionRow{
		{Timestamp: "2026-08-25T12:00:00.000000001Z", Inputs: `{"median_income":3.5}`, Prediction: "2.068"},
		{Timestamp: "2026-08-25T12:00:01.000000002Z", Inputs: `{"median_income":5.1}`, Prediction: "2.75"},
		{Timestamp: "2026-08-25T12:00:02.000000003Z", Inputs: `{"median_income":1.2}`, Prediction: "0.941"},
	}

	var lastID int64
	for i, row := range rows {
		id, err := store.InsertPrediction(ctx, row)
		if err != nil {
			t.Fatalf("InsertPrediction(%d): %v", i, err)
		}
		if id <= lastID {
			t.Errorf("row %d id = %d, want greater than %d", i, id, lastID)
		}
		lastID = id
	}

	count, err = store.CountPredictions(ctx)
	if err != nil {
		t.Fatalf("CountPredictions: %v", err)
	}
	if count != int64(len(rows)) {
		t.Errorf("count = %d, want %d", count, len(rows))
	}
}

func TestInsertRejectsIncompleteRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cases := []PredictionRow{
		{Inputs: `{"a":1}`, Prediction: "1"},
		{Timestamp: "2026-08-25T12:00:00Z", Prediction: "1"},
		{Timestamp: "2026-08-25T12:00:00Z", Inputs: `{"a":1}`},
	}

	for i, row := range cases {
		if _, err := store.InsertPrediction(ctx, row); !errors.Is(err, ErrInvalidRow) {
			t.Errorf("case %d: err = %v, want ErrInvalidRow", i, err)
		}
	}

	count, err := store.CountPredictions(ctx)
	if err != nil {
		t.Fatalf("CountPredictions: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d after rejected inserts, want 0", count)
	}
}

func TestFindByTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	const ts = "2026-08-25T12:00:00.123456789Z"
	inputs := `{"total_rooms":8,"total_bedrooms":3,"population":1000,"households":500,"median_income":3.5,"housing_median_age":35,"latitude":37.7749,"longitude":-122.4194}`

	if _, err := store.InsertPrediction(ctx, PredictionRow{Timestamp: ts, Inputs: inputs, Prediction: "2.068"}); err != nil {
		t.Fatalf("InsertPrediction: %v", err)
	}
	if _, err := store.InsertPrediction(ctx, PredictionRow{Timestamp: "2026-08-25T13:00:00Z", Inputs: `{"median_income":9.9}`, Prediction: "4.5"}); err != nil {
		t.Fatalf("InsertPrediction: %v", err)
	}

	got, err := store.FindByTimestamp(ctx, ts)
	if err != nil {
		t.Fatalf("FindByTimestamp: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Inputs != inputs {
		t.Errorf("Inputs round-trip mismatch:\n got %s\nwant %s", got[0].Inputs, inputs)
	}
	if got[0].Prediction != "2.068" {
		t.Errorf("Prediction = %q, want %q", got[0].Prediction, "2.068")
	}
	if got[0].Timestamp != ts {
		t.Errorf("Timestamp = %q, want %q", got[0].Timestamp, ts)
	}

	none, err := store.FindByTimestamp(ctx, "1999-01-01T00:00:00Z")
	if err != nil {
		t.Fatalf("FindByTimestamp on unknown timestamp: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("got %d rows for unknown timestamp, want 0", len(none))
	}
}

func TestCountSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "predictions.db")

	store, err := New(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := store.InsertPrediction(ctx, PredictionRow{
			Timestamp:  "2026-08-25T12:00:00Z",
			Inputs:     `{"median_income":3.5}`,
			Prediction: "2.068",
		}); err != nil {
			t.Fatalf("InsertPrediction: %v", err)
		}
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := New(ctx, path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	count, err := reopened.CountPredictions(ctx)
	if err != nil {
		t.Fatalf("CountPredictions after reopen: %v", err)
	}
	if count != 2 {
		t.Errorf("count after reopen = %d, want 2", count)
	}
}

func TestCountUnavailableAfterClose(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "predictions.db")

	store, err := New(ctx, path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// A closed store must be distinguishable from an empty one.
	if _, err := store.CountPredictions(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("CountPredictions err = %v, want ErrUnavailable", err)
	}
	if _, err := store.InsertPrediction(ctx, PredictionRow{
		Timestamp:  "2026-08-25T12:00:00Z",
		Inputs:     `{"median_income":3.5}`,
		Prediction: "2.068",
	}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("InsertPrediction err = %v, want ErrUnavailable", err)
	}
}

func TestNewCreatesParentDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "nested", "predictions.db")

	store, err := New(ctx, path)
	if err != nil {
		t.Fatalf("open store with nested path: %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := store.CountPredictions(ctx); err != nil {
		t.Errorf("CountPredictions: %v", err)
	}
}
