// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// ModelPath locates the serialized model artifact read once at startup.
	// A .json artifact selects the built-in linear backend, .onnx the
	// ONNX Runtime backend.
	ModelPath string `koanf:"model_path"`

	// OrtLibraryPath points at the ONNX Runtime shared library. Empty means
	// look next to the model artifact. Ignored by the linear backend.
	OrtLibraryPath string `koanf:"ort_library_path"`

	// PredictionLogPath is the append-only prediction log file.
	PredictionLogPath string `koanf:"prediction_log_path"`

	// DatabasePath is the embedded store file holding prediction rows.
	DatabasePath string `koanf:"database_path"`

	// DatabaseThreads bounds the store's internal thread pool.
	DatabaseThreads int `koanf:"database_threads"`

	// MaxBodyBytes caps the accepted POST /predict body size.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:          "info",
		Addr:              ":8000",
		ModelPath:         "models/LinearRegression.json",
		OrtLibraryPath:    "",
		PredictionLogPath: "prediction_logs.log",
		DatabasePath:      "predictions.db",
		DatabaseThreads:   runtime.NumCPU(),
		MaxBodyBytes:      1 << 20,
	}
	return c
}
