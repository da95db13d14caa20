package loadgen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/campuskit/quad/pkg/logger"
)

// File permission constants.
const (
	outputFilePermission = 0600
)

// processingWait gives workers time to drain the queue before verification.
const processingWait = 10 * time.Second

// Run executes one complete load generation pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting quad load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("pairs", config.NumPairs),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	pairs, err := generatePairs(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("pair generation failed: %w", err)
	}

	if err := submitPairs(ctx, config, pairs, stats); err != nil {
		return fmt.Errorf("pair submission failed: %w", err)
	}

	logger.Get().Info(ctx, "waiting for pairs to be scored")
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(processingWait):
	}

	feed, err := getFeed(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("feed retrieval failed: %w", err)
	}

	if err := verifyFeed(ctx, config, feed, stats); err != nil {
		return fmt.Errorf("feed verification failed: %w", err)
	}

	if err := savePairsToFile(ctx, config, pairs); err != nil {
		logger.Get().Warn(ctx, "failed to save pairs to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "load run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// savePairsToFile saves the generated pair events as a JSON array.
func savePairsToFile(ctx context.Context, config *Config, pairs []PairEvent) error {
	if len(pairs) == 0 {
		return fmt.Errorf("no pairs to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_pairs_" + timestamp + ".json"
	}

	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pairs: %w", err)
	}
	if err := os.WriteFile(filename, data, outputFilePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "pairs saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, pairsPerSecond float64

	if stats.PairsSubmitted > 0 {
		successRate = float64(stats.PairsSuccessful) / float64(stats.PairsSubmitted) * 100
	}

	if stats.Duration > 0 {
		pairsPerSecond = float64(stats.PairsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("pairsGenerated", stats.PairsGenerated),
		logger.Int("pairsSubmitted", stats.PairsSubmitted),
		logger.Int("pairsSuccessful", stats.PairsSuccessful),
		logger.Int("pairsDuplicate", stats.PairsDuplicate),
		logger.Int("pairsFailed", stats.PairsFailed),
		logger.Int("matchesFetched", stats.MatchesFetched),
		logger.Int("feedEntries", stats.FeedEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("pairsPerSecond", pairsPerSecond))
}
