package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/homeval/homeval/pkg/metrics"
)

// DuckDB has no AUTOINCREMENT; a sequence-backed column default is the
// equivalent.
const (
	createSequenceStmt = `CREATE SEQUENCE IF NOT EXISTS predictions_id_seq`

	createTableStmt = `CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY DEFAULT nextval('predictions_id_seq'),
		timestamp TEXT NOT NULL,
		inputs TEXT NOT NULL,
		prediction TEXT NOT NULL
	)`
)

// DuckDB implements Store on an embedded DuckDB database file.
type DuckDB struct {
	db      *sql.DB
	path    string
	threads int
}

// New opens the prediction database at path, creating file and schema when
// missing. Every failure here is a startup failure: the service must not
// accept traffic without its durable sink.
func New(ctx context.Context, path string, opts ...Option) (*DuckDB, error) {
	s := &DuckDB{
		path:    path,
		threads: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// DuckDB does not create missing parent directories.
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("repository: create database directory %s: %w", dir, err)
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d", path, s.threads)
	db, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("repository: open database: %w", err)
	}

	db.SetMaxOpenConns(runtime.NumCPU())
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: ping database: %w", err)
	}

	// Execute each statement separately; DuckDB rejects multi-statement
	// execution through the driver.
	for _, stmt := range []string{createSequenceStmt, createTableStmt} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("repository: execute schema statement: %w", err)
		}
	}

	// Checkpoint after schema creation so a crash before the first insert
	// leaves a replayable database file rather than a schema-only WAL.
	if _, err := db.ExecContext(ctx, "CHECKPOINT"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("repository: checkpoint schema: %w", err)
	}

	s.db = db
	return s, nil
}

// InsertPrediction implements Store.InsertPrediction.
func (s *DuckDB) InsertPrediction(ctx context.Context, row PredictionRow) (int64, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordStoreInsertLatency(float64(latency))
	}()

	if row.Timestamp == "" || row.Inputs == "" || row.Prediction == "" {
		metrics.RecordErrorByComponent("repository", "invalid_row")
		return 0, fmt.Errorf("%w: timestamp, inputs and prediction are all required", ErrInvalidRow)
	}

	// RETURNING is the only way to learn the generated id: the DuckDB
	// driver does not support LastInsertId with sequence defaults.
	const query = `INSERT INTO predictions (timestamp, inputs, prediction)
		VALUES (?, ?, ?)
		RETURNING id`

	var id int64
	if err := s.db.QueryRowContext(ctx, query, row.Timestamp, row.Inputs, row.Prediction).Scan(&id); err != nil {
		metrics.RecordStoreError()
		metrics.RecordErrorByComponent("repository", "insert_failed")
		return 0, fmt.Errorf("%w: insert prediction: %w", ErrUnavailable, err)
	}

	return id, nil
}

// CountPredictions implements Store.CountPredictions.
func (s *DuckDB) CountPredictions(ctx context.Context) (int64, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordStoreQueryLatency(float64(latency))
	}()

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		metrics.RecordStoreError()
		metrics.RecordErrorByComponent("repository", "count_failed")
		return 0, fmt.Errorf("%w: count predictions: %w", ErrUnavailable, err)
	}

	metrics.UpdateStoreRows(count)
	return count, nil
}

// FindByTimestamp implements Store.FindByTimestamp.
func (s *DuckDB) FindByTimestamp(ctx context.Context, timestamp string) ([]PredictionRow, error) {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordStoreQueryLatency(float64(latency))
	}()

	const query = `SELECT id, timestamp, inputs, prediction
		FROM predictions
		WHERE timestamp = ?
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, timestamp)
	if err != nil {
		metrics.RecordStoreError()
		metrics.RecordErrorByComponent("repository", "query_failed")
		return nil, fmt.Errorf("%w: query predictions: %w", ErrUnavailable, err)
	}
	defer func() { _ = rows.Close() }()

	var out []PredictionRow
	for rows.Next() {
		var r PredictionRow
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Inputs, &r.Prediction); err != nil {
			return nil, fmt.Errorf("repository: scan prediction row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate prediction rows: %w", err)
	}

	return out, nil
}

// Close flushes the WAL and closes the database file.
func (s *DuckDB) Close() error {
	_, cpErr := s.db.Exec("CHECKPOINT")
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("repository: close database: %w", err)
	}
	if cpErr != nil {
		return fmt.Errorf("repository: checkpoint: %w", cpErr)
	}
	return nil
}
