package loadtest

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/homeval/homeval/pkg/logger"
)

const directoryPermission = 0750

// Run executes the complete prediction load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	// One run ID tags the log lines and the saved results file, so several
	// runs against the same service stay distinguishable.
	runID := uuid.New().String()

	logger.Get().Info(ctx, "starting homeval prediction test",
		logger.String("runID", runID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.NumRequests),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Baseline usage counter, so the run verifies its own delta even
	// against a store that already holds predictions
	baseline, err := fetchMetrics(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("baseline metrics read failed: %w", err)
	}
	stats.BaselineCount = baseline
	logger.Get().Info(ctx, "baseline usage counter", logger.Int64("totalPredictions", baseline))

	// Step 3: Generate payloads
	requests, err := generateRequests(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("payload generation failed: %w", err)
	}

	// Step 4: Submit predictions concurrently. Predictions are served
	// synchronously, so the counter is current as soon as submission returns.
	results, err := submitPredictions(ctx, config, requests, stats)
	if err != nil {
		return fmt.Errorf("prediction submission failed: %w", err)
	}

	// Step 5: Final usage counter
	final, err := fetchMetrics(ctx, client, config.BaseURL)
	if err != nil {
		return fmt.Errorf("final metrics read failed: %w", err)
	}
	stats.FinalCount = final

	// Step 6: Verify results
	if err := verifyResults(ctx, config, results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save results to file
	if err := saveResultsToFile(ctx, config, runID, results); err != nil {
		logger.Get().Warn(ctx, "failed to save results to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully", logger.String("runID", runID))
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 is healthy; the endpoint serves the Prometheus registry.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveResultsToFile writes every accepted payload with its predicted price
// as a JSON array, one result per line, so a run can be replayed or audited
// against the service's own prediction log.
func saveResultsToFile(ctx context.Context, config *Config, runID string, results []Result) error {
	if len(results) == 0 {
		return fmt.Errorf("no results to save")
	}

	filename := config.OutputFile
	if filename == "" {
		filename = "predictions_" + runID + ".json"
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	w := bufio.NewWriter(file)
	if _, err := w.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	for i, result := range results {
		jsonData, err := marshalJSON(result)
		if err != nil {
			return fmt.Errorf("failed to marshal result %d: %w", i, err)
		}

		if i > 0 {
			_, _ = w.WriteString(",\n")
		}
		if _, err := w.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write result %d: %w", i, err)
		}
	}

	if _, err := w.WriteString("\n]\n"); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush results: %w", err)
	}

	logger.Get().Info(ctx, "results saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, requestsPerSecond float64

	if stats.RequestsSubmitted > 0 {
		successRate = 100 * float64(stats.RequestsSuccessful) / float64(stats.RequestsSubmitted)
	}

	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.RequestsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("requestsGenerated", stats.RequestsGenerated),
		logger.Int("requestsSubmitted", stats.RequestsSubmitted),
		logger.Int("requestsSuccessful", stats.RequestsSuccessful),
		logger.Int("requestsRejected", stats.RequestsRejected),
		logger.Int("requestsFailed", stats.RequestsFailed),
		logger.Int64("baselineCount", stats.BaselineCount),
		logger.Int64("finalCount", stats.FinalCount),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
