package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if HOMEVAL_CONFIG is set
//  3. env (prefix HOMEVAL_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("HOMEVAL_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: HOMEVAL_ADDR, HOMEVAL_MODEL_PATH, ...
	// Map env keys like HOMEVAL_MODEL_PATH -> model_path (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("HOMEVAL_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "homeval_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Basic validation
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the process cannot start with.
func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.ModelPath == "" {
		return fmt.Errorf("%w: model_path must not be empty", ErrInvalidConfig)
	}
	if c.PredictionLogPath == "" {
		return fmt.Errorf("%w: prediction_log_path must not be empty", ErrInvalidConfig)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database_path must not be empty", ErrInvalidConfig)
	}
	if c.DatabaseThreads < 1 {
		return fmt.Errorf("%w: database_threads must be at least 1", ErrInvalidConfig)
	}
	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("%w: max_body_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
