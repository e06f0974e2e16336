package sink

import (
	"context"
	"errors"
	"time"

	"github.com/homeval/homeval/pkg/metrics"
)

// Multi fans out records to every configured sink. Each Record call delivers
// to every sink sequentially; one sink failing never stops delivery to the
// others, and Multi itself never aborts the request being recorded.
type Multi struct {
	sinks []Sink
}

// NewMulti creates a Multi that fans out to the given sinks.
func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

// Record delivers rec to every sink and returns one tagged result per sink,
// in configuration order.
func (m *Multi) Record(ctx context.Context, rec Record) []Result {
	results := make([]Result, 0, len(m.sinks))
	for _, s := range m.sinks {
		start := time.Now()
		err := s.Write(ctx, rec)
		latency := time.Since(start).Milliseconds()

		metrics.RecordSinkWriteLatency(s.Name(), float64(latency))
		if err != nil {
			metrics.RecordSinkWriteError(s.Name())
		} else {
			metrics.RecordSinkWrite(s.Name())
		}

		results = append(results, Result{Sink: s.Name(), Err: err})
	}
	return results
}

// Close closes every sink, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
