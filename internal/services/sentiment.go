package services

import (
	"ecommerce-trend-analyzer/internal/models"
)

// neutralSentiment is returned whenever no scoring rule applies or
// scoring fails
const neutralSentiment = 0.5

// marketSentiment derives a scalar market-favorability score in [0,1]
// from a source payload. The function is total: any failure while scoring
// yields the neutral default, never an error.
func marketSentiment(stats models.SourceStats) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = neutralSentiment
		}
	}()

	switch s := stats.(type) {
	case *models.AmazonStats:
		return clampUnit(s.AvgRating / 5.0)

	// The eBay rule reads a condition distribution and the Google rule an
	// average-interest summary; neither adapter produces those fields, so
	// both land on the neutral default.
	default:
		return neutralSentiment
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
