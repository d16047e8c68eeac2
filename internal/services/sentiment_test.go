package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecommerce-trend-analyzer/internal/models"
)

func TestMarketSentiment(t *testing.T) {
	tests := []struct {
		name     string
		stats    models.SourceStats
		expected float64
	}{
		{
			name:     "amazon average rating scales to rating out of five",
			stats:    &models.AmazonStats{AvgRating: 3.0},
			expected: 0.6,
		},
		{
			name:     "amazon perfect rating",
			stats:    &models.AmazonStats{AvgRating: 5.0},
			expected: 1.0,
		},
		{
			name:     "amazon rating above scale is clamped",
			stats:    &models.AmazonStats{AvgRating: 7.5},
			expected: 1.0,
		},
		{
			name:     "amazon zero rating",
			stats:    &models.AmazonStats{},
			expected: 0,
		},
		{
			name:     "ebay has no condition summary and scores neutral",
			stats:    &models.EbayStats{ActiveListings: 500, AvgPrice: 60},
			expected: neutralSentiment,
		},
		{
			name:     "google has no interest summary and scores neutral",
			stats:    &models.GoogleStats{},
			expected: neutralSentiment,
		},
		{
			name:     "etsy scores neutral",
			stats:    &models.EtsyStats{TotalListings: 4},
			expected: neutralSentiment,
		},
		{
			name:     "nil stats score neutral",
			stats:    nil,
			expected: neutralSentiment,
		},
		{
			// A typed nil enters the amazon rule and panics on the field
			// access; scoring recovers to the neutral default
			name:     "panic while scoring recovers to neutral",
			stats:    (*models.AmazonStats)(nil),
			expected: neutralSentiment,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score := marketSentiment(tc.stats)

			assert.InDelta(t, tc.expected, score, 1e-9)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestClampUnit(t *testing.T) {
	assert.Equal(t, 0.0, clampUnit(-0.3))
	assert.Equal(t, 0.42, clampUnit(0.42))
	assert.Equal(t, 1.0, clampUnit(1.7))
}
