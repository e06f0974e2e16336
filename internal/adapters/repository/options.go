// Package repository defines the prediction store interface and errors.
package repository

// Option applies a configuration option to the DuckDB store.
type Option func(*DuckDB)

// WithThreads caps the number of worker threads DuckDB may use.
func WithThreads(n int) Option {
	return func(s *DuckDB) {
		if n > 0 {
			s.threads = n
		}
	}
}
