// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/homeval/homeval/internal/adapters/repository"
	"github.com/homeval/homeval/internal/adapters/sink"
	"github.com/homeval/homeval/internal/domain/housing"
	"github.com/homeval/homeval/internal/domain/predictor"
	"github.com/homeval/homeval/pkg/logger"
	"github.com/homeval/homeval/pkg/metrics"
)

// ErrNotConfigured reports a Start call before every component was wired.
var ErrNotConfigured = errors.New("service missing required components")

// Engine scores validated prediction requests.
type Engine interface {
	Predict(ctx context.Context, req housing.PredictionRequest) (predictor.Prediction, error)
}

// Recorder fans a served prediction out to the audit sinks.
type Recorder interface {
	Record(ctx context.Context, rec sink.Record) []sink.Result
	Close() error
}

// Service implements the API dependencies for the prediction system.
type Service struct {
	mu sync.RWMutex

	// Core components
	engine   Engine
	recorder Recorder
	store    repository.Store

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEngine sets the prediction engine.
func WithEngine(engine Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithRecorder sets the audit recorder.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithStore sets the prediction store backing the usage counter.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service from the given options.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start verifies every component is wired and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.engine == nil || s.recorder == nil || s.store == nil {
		return ErrNotConfigured
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.started = true
	s.logger.Info(ctx, "prediction service started")

	return nil
}

// Stop gracefully shuts down the service. The store stays open because its
// owner still reads the usage counter during drain; closing it is the
// caller's job.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping prediction service...")

	if err := s.recorder.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing recorder", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

// Predict derives features for req, scores them, and audits the served
// prediction. Audit failures never fail the response; by the time they can
// happen the prediction is already correct and belongs to the client.
func (s *Service) Predict(ctx context.Context, req housing.PredictionRequest) (float64, error) {
	start := time.Now()

	pred, err := s.engine.Predict(ctx, req)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		if errors.Is(err, predictor.ErrModelMismatch) {
			metrics.RecordModelMismatchError()
		}
		return 0, err
	}

	s.audit(ctx, req, pred.Value)

	metrics.RecordPredictionServed()
	metrics.RecordPredictedPrice(pred.Value)
	metrics.RecordPredictionLatency(float64(time.Since(start).Milliseconds()))

	return pred.Value, nil
}

// TotalPredictions reports how many predictions the store holds.
func (s *Service) TotalPredictions(ctx context.Context) (int64, error) {
	return s.store.CountPredictions(ctx)
}

// audit writes one served prediction to every sink. A record is lost only
// when no sink accepted it; that is an operational failure, so it is logged
// at error level and counted.
func (s *Service) audit(ctx context.Context, req housing.PredictionRequest, price float64) {
	payload, err := json.Marshal(req)
	if err != nil {
		metrics.RecordRecordLost()
		s.logger.Error(ctx, "prediction record lost: marshal audit payload", logger.Error(err))
		return
	}

	rec := sink.Record{
		Timestamp:  time.Now().UTC(),
		Input:      string(payload),
		Prediction: price,
	}

	results := s.recorder.Record(ctx, rec)
	failed := 0
	for _, res := range results {
		if res.Err == nil {
			continue
		}
		failed++
		s.logger.Warn(ctx, "prediction sink write failed",
			logger.String("sink", res.Sink),
			logger.Error(res.Err),
		)
	}

	if len(results) > 0 && failed == len(results) {
		metrics.RecordRecordLost()
		s.logger.Error(ctx, "prediction record lost: every sink rejected it",
			logger.Int("sinks", len(results)),
			logger.Float64("prediction", price),
		)
	}
}
