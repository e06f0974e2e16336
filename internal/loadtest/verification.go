package loadtest

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
)

// verifyResults checks the usage counter delta against the number of accepted
// predictions and inspects the returned prices.
func verifyResults(ctx context.Context, config *Config, results []Result, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(results) == 0 {
		return fmt.Errorf("no successful predictions to verify")
	}

	// The usage counter must advance by exactly one per accepted prediction,
	// measured as a delta so runs against a pre-populated store still verify.
	if err := verifyCounterDelta(stats); err != nil {
		log.Printf("⚠️  Usage counter consistency warning: %v", err)
	} else {
		log.Println("✅ Usage counter consistency verified")
	}

	// Every accepted prediction carries a price; none may be NaN or infinite.
	if err := verifyPricesFinite(results); err != nil {
		log.Printf("⚠️  Predicted price warning: %v", err)
	} else {
		log.Println("✅ All predicted prices are finite")
	}

	// Sort results by predicted price (descending) to get the priciest blocks
	sortedResults := make([]Result, len(results))
	copy(sortedResults, results)
	sort.Slice(sortedResults, func(i, j int) bool {
		return sortedResults[i].Price > sortedResults[j].Price
	})

	displayTopPredictions(sortedResults, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyCounterDelta checks that the usage counter advanced by exactly the
// number of accepted predictions.
func verifyCounterDelta(stats *Stats) error {
	delta := stats.FinalCount - stats.BaselineCount
	expected := int64(stats.RequestsSuccessful)

	if delta != expected {
		return fmt.Errorf("usage counter advanced by %d, expected %d (baseline %d, final %d)",
			delta, expected, stats.BaselineCount, stats.FinalCount)
	}

	return nil
}

// verifyPricesFinite checks every returned price for NaN or infinity.
func verifyPricesFinite(results []Result) error {
	for i, result := range results {
		if math.IsNaN(result.Price) || math.IsInf(result.Price, 0) {
			return fmt.Errorf("result %d has a non-finite predicted price", i)
		}
	}

	return nil
}

// displayTopPredictions shows the highest predicted prices from the run.
func displayTopPredictions(sortedResults []Result, verbose bool) {
	topN := 10
	if len(sortedResults) < topN {
		topN = len(sortedResults)
	}

	log.Printf("🏆 Top %d predicted prices:", topN)
	for i := 0; i < topN; i++ {
		result := sortedResults[i]
		log.Printf("   %d. %.3f - income: %.2f, age: %.0f, households: %.0f",
			i+1, result.Price, result.Request.MedianIncome,
			result.Request.HousingMedianAge, result.Request.Households)
	}

	if verbose {
		// Show some statistics
		if len(sortedResults) > 0 {
			avgPrice := calculateAveragePrice(sortedResults)
			maxPrice := sortedResults[0].Price
			minPrice := sortedResults[len(sortedResults)-1].Price

			log.Printf(`📊 Price statistics:
   Average: %.3f
   Maximum: %.3f
   Minimum: %.3f
`, avgPrice, maxPrice, minPrice)
		}
	}
}

// calculateAveragePrice calculates the average predicted price.
func calculateAveragePrice(results []Result) float64 {
	if len(results) == 0 {
		return 0
	}

	sum := 0.0
	for _, result := range results {
		sum += result.Price
	}

	return sum / float64(len(results))
}
