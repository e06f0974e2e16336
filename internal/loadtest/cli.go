package loadtest

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/homeval/homeval/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging routes the progress output (stdlib log) to both the console
// and a file, defaulting to a timestamped filename.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		logFile = fmt.Sprintf("loadtest_%s.log", time.Now().Format("20060102_150405"))
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "mirroring progress output", logger.String("path", logFile))
	return nil
}

// ShowHelp prints usage information for the prediction load test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Homeval Prediction Load Test
============================

A concurrent tool for exercising the Homeval prediction service and verifying
that its usage counter keeps pace with accepted predictions.

Usage:
  go run cmd/loadtest/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -requests int
        Number of prediction requests to generate and submit (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for requests and predicted prices (default: predictions_RUNID.json)
  -log string
        Log file for test output (default: loadtest_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Run with defaults
  go run cmd/loadtest/main.go

  # Heavier run against a local service
  go run cmd/loadtest/main.go -requests 5000 -workers 16 -url http://localhost:8000

  # Verbose run
  go run cmd/loadtest/main.go -verbose -requests 1000

  # Keep the progress log in a named file
  go run cmd/loadtest/main.go -requests 5000 -log my_test.log
`)
}
