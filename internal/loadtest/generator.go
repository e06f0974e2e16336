package loadtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/homeval/homeval/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 8
)

// Constants for generated block group attribute ranges. Values stay inside
// the California housing dataset's observed bounds so every payload is one
// the model was trained for.
const (
	householdsMin   = 50.0
	householdsRange = 1950.0

	roomsPerHouseholdMin   = 3.0
	roomsPerHouseholdRange = 4.0

	bedroomsPerHouseholdMin   = 0.8
	bedroomsPerHouseholdRange = 0.4

	occupancyMin   = 1.5
	occupancyRange = 2.5

	houseAgeMin   = 1.0
	houseAgeRange = 51.0

	latitudeMin   = 32.54
	latitudeRange = 9.41

	longitudeMin   = -124.35
	longitudeRange = 10.04
)

// Constants for median income generation ranges, in tens of thousands of
// dollars (dataset scale).
const (
	middleIncomeMin     = 2.5
	middleIncomeRange   = 3.0
	upperMiddleMin      = 5.5
	upperMiddleRange    = 2.5
	lowIncomeMin        = 0.5
	lowIncomeRange      = 2.0
	affluentMin         = 8.0
	affluentRange       = 7.0
	povertyMin          = 0.5
	povertyRange        = 1.0
	comfortableMin      = 4.5
	comfortableRange    = 2.0
	workingClassMin     = 1.5
	workingClassRange   = 2.0
	fullIncomeRangeMin  = 0.5
	fullIncomeRangeSpan = 14.5
)

// Constants for income profile cases.
const (
	caseMiddleIncome = 0
	caseUpperMiddle  = 1
	caseLowIncome    = 2
	caseAffluent     = 3
	casePoverty      = 4
	caseComfortable  = 5
	caseWorkingClass = 6
	caseFullRange    = 7
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateRequests creates the specified number of valid prediction payloads.
func generateRequests(ctx context.Context, config *Config, stats *Stats) ([]PredictionRequest, error) {
	logger.Get().Info(ctx, "generating prediction payloads", logger.Int("numRequests", config.NumRequests))

	requests := make([]PredictionRequest, config.NumRequests)

	// Generate requests concurrently
	type requestResult struct {
		index   int
		request PredictionRequest
		err     error
	}

	resultChan := make(chan requestResult, config.NumRequests)

	// Use worker pool for payload generation
	workerCount := minInt(config.Workers, config.NumRequests)
	requestsPerWorker := config.NumRequests / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * requestsPerWorker
		end := start + requestsPerWorker
		if worker == workerCount-1 {
			end = config.NumRequests // Last worker gets remaining payloads
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- requestResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- requestResult{index: i, request: generateSingleRequest(), err: nil}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumRequests; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during payload generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate payload %d: %w", result.index, result.err)
			}
			requests[result.index] = result.request
		}
	}

	stats.RequestsGenerated = len(requests)
	logger.Get().Info(ctx, "generated payloads successfully", logger.Int("count", len(requests)))

	return requests, nil
}

// generateSingleRequest creates one internally consistent block group. Totals
// are built from a household count and per-household rates, so derived
// averages land in the ranges the model saw during training, and households
// is always positive (the service rejects anything else).
func generateSingleRequest() PredictionRequest {
	households := householdsMin + getRandomFloat()*householdsRange

	return PredictionRequest{
		TotalRooms:       households * (roomsPerHouseholdMin + getRandomFloat()*roomsPerHouseholdRange),
		TotalBedrooms:    households * (bedroomsPerHouseholdMin + getRandomFloat()*bedroomsPerHouseholdRange),
		Population:       households * (occupancyMin + getRandomFloat()*occupancyRange),
		Households:       households,
		MedianIncome:     generateVariedIncome(),
		HousingMedianAge: houseAgeMin + getRandomFloat()*houseAgeRange,
		Latitude:         latitudeMin + getRandomFloat()*latitudeRange,
		Longitude:        longitudeMin + getRandomFloat()*longitudeRange,
	}
}

// generateVariedIncome creates a median income with varied distribution, so
// the fleet of payloads covers the model's whole input space instead of
// clustering around one neighborhood profile.
func generateVariedIncome() float64 {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(profileDivisor))
	switch randNum.Int64() {
	case caseMiddleIncome:
		// Middle income (2.5 - 5.5) - most common
		return middleIncomeMin + getRandomFloat()*middleIncomeRange
	case caseUpperMiddle:
		// Upper middle (5.5 - 8.0)
		return upperMiddleMin + getRandomFloat()*upperMiddleRange
	case caseLowIncome:
		// Low income (0.5 - 2.5)
		return lowIncomeMin + getRandomFloat()*lowIncomeRange
	case caseAffluent:
		// Affluent (8.0 - 15.0) - rare
		return affluentMin + getRandomFloat()*affluentRange
	case casePoverty:
		// Poverty (0.5 - 1.5) - rare
		return povertyMin + getRandomFloat()*povertyRange
	case caseComfortable:
		// Comfortable (4.5 - 6.5)
		return comfortableMin + getRandomFloat()*comfortableRange
	case caseWorkingClass:
		// Working class (1.5 - 3.5)
		return workingClassMin + getRandomFloat()*workingClassRange
	case caseFullRange:
		// Random across full range (0.5 - 15.0)
		return fullIncomeRangeMin + getRandomFloat()*fullIncomeRangeSpan
	default:
		return fullIncomeRangeMin + getRandomFloat()*fullIncomeRangeSpan
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
