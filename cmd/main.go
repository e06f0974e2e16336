package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/homeval/homeval/internal/adapters/http/api"
	"github.com/homeval/homeval/internal/adapters/http/docs"
	"github.com/homeval/homeval/internal/adapters/regressor"
	"github.com/homeval/homeval/internal/adapters/repository"
	"github.com/homeval/homeval/internal/adapters/sink"
	"github.com/homeval/homeval/internal/adapters/sink/dbsink"
	"github.com/homeval/homeval/internal/adapters/sink/logfile"
	app "github.com/homeval/homeval/internal/app"
	"github.com/homeval/homeval/internal/config"
	"github.com/homeval/homeval/internal/domain/predictor"
	"github.com/homeval/homeval/pkg/logger"
	"github.com/homeval/homeval/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// fatal reports a startup failure. The process must not serve a single
// request once any component failed to load.
func fatal(msg string, err error) {
	os.Stderr.WriteString(msg + ": " + err.Error() + "\n")
	os.Exit(1)
}

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		fatal("failed to initialize logging", err)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fatal("failed to load config", err)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Runtime and process stats are gathered at scrape time, so /healthz
	// carries them without any polling goroutine.
	metrics.GetRegistry().MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Load the model artifact once. A missing or corrupt artifact means the
	// deployment is broken; refuse to start rather than fail per request.
	model, err := regressor.Load(ctx, cfg.ModelPath, regressor.WithOrtLibraryPath(cfg.OrtLibraryPath))
	if err != nil {
		fatal("failed to load model artifact", err)
	}
	defer func() { _ = model.Close() }()

	metrics.UpdateModelInfo(model.Backend(), model.Name())
	metrics.UpdateModelFeatureCount(model.FeatureCount())
	loggerInstance.Info(ctx, "model loaded",
		logger.String("backend", model.Backend()),
		logger.String("artifact", model.Name()),
		logger.Int("features", model.FeatureCount()),
	)

	engine, err := predictor.New(model)
	if err != nil {
		fatal("failed to build prediction engine", err)
	}

	store, err := repository.New(ctx, cfg.DatabasePath, repository.WithThreads(cfg.DatabaseThreads))
	if err != nil {
		fatal("failed to open prediction store", err)
	}
	defer func() { _ = store.Close() }()

	auditLog, err := logfile.New(cfg.PredictionLogPath)
	if err != nil {
		fatal("failed to open prediction log", err)
	}

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(loggerInstance),
		app.WithEngine(engine),
		app.WithRecorder(sink.NewMulti(auditLog, dbsink.New(store))),
		app.WithStore(store),
	)
	if err := svc.Start(ctx); err != nil {
		fatal("failed to start service", err)
	}
	defer svc.Stop()

	// HTTP router and routes.
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	// Register API documentation under /docs
	docs.Register(ctx, r)

	// Register business API routes with the service dependency.
	api.NewServer(svc, cfg.MaxBodyBytes).Register(ctx, r)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}
