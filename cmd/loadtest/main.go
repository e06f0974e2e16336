package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/homeval/homeval/internal/loadtest"
)

// Default configuration constants.
const (
	defaultNumRequests = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8000", "Base URL of the service")
		numRequests = flag.Int("requests", defaultNumRequests, "Number of prediction requests to generate and submit")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for requests and predicted prices (default: predictions_RUNID.json)")
		logFile     = flag.String("log", "", "Log file for test output (default: loadtest_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadtest.ShowHelp()
		return
	}

	// Setup logging
	if err := loadtest.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &loadtest.Config{
		BaseURL:     *baseURL,
		NumRequests: *numRequests,
		Workers:     *workers,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the test
	if err := loadtest.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
