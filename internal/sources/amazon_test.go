package sources

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-trend-analyzer/internal/models"
)

// mockAmazonClient is a mock implementation of the Amazon search client
type mockAmazonClient struct {
	searchItemsFn func(ctx context.Context, keyword string) ([]AmazonItem, error)
}

// Check interface implementation at compile-time
var _ AmazonSearchClient = &mockAmazonClient{}

func (m *mockAmazonClient) SearchItems(ctx context.Context, keyword string) ([]AmazonItem, error) {
	if m.searchItemsFn != nil {
		return m.searchItemsFn(ctx, keyword)
	}
	return nil, nil
}

// testLogger creates a logger that discards output for testing
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pricedItem(price float64) AmazonItem {
	return AmazonItem{Offers: &AmazonOffers{Listings: []AmazonListing{{Price: price}}}}
}

func TestAmazonAdapter_Fetch(t *testing.T) {
	items := []AmazonItem{
		{
			Offers: &AmazonOffers{Listings: []AmazonListing{{Price: 10}}},
			Rating: &AmazonRating{Count: 120, Value: 4},
		},
		{
			Offers: &AmazonOffers{Listings: []AmazonListing{{Price: 20}}},
			Rating: &AmazonRating{Count: 80, Value: 5},
		},
		{
			// No rating: still counted in the average-rating denominator
			Offers: &AmazonOffers{Listings: []AmazonListing{{Price: 30}}},
		},
	}

	adapter := NewAmazonAdapter(&mockAmazonClient{
		searchItemsFn: func(ctx context.Context, keyword string) ([]AmazonItem, error) {
			assert.Equal(t, "wireless headphones", keyword)
			return items, nil
		},
	}, testLogger())

	query, err := models.NewTrendQuery(models.SourceAmazon, "wireless headphones", "United States", "")
	require.NoError(t, err)

	stats, err := adapter.Fetch(context.Background(), query)
	require.NoError(t, err)

	amazonStats, ok := stats.(*models.AmazonStats)
	require.True(t, ok)

	assert.InDelta(t, 20, amazonStats.AvgPrice, 1e-9)
	assert.Equal(t, models.PriceRange{Min: 10, Max: 30}, amazonStats.PriceRange)
	assert.Equal(t, 200, amazonStats.ReviewCount)
	// Denominator is items inspected (3), not items with a rating (2)
	assert.InDelta(t, 3.0, amazonStats.AvgRating, 1e-9)
	assert.Equal(t, 3, amazonStats.TotalProducts)
}

func TestAmazonAdapter_Fetch_ItemsWithoutOffers(t *testing.T) {
	items := []AmazonItem{
		{Rating: &AmazonRating{Count: 10, Value: 3}},
		{Rating: &AmazonRating{Count: 5, Value: 4}},
	}

	adapter := NewAmazonAdapter(&mockAmazonClient{
		searchItemsFn: func(ctx context.Context, keyword string) ([]AmazonItem, error) {
			return items, nil
		},
	}, testLogger())

	query, err := models.NewTrendQuery(models.SourceAmazon, "rare item", "United States", "")
	require.NoError(t, err)

	stats, err := adapter.Fetch(context.Background(), query)
	require.NoError(t, err)

	amazonStats := stats.(*models.AmazonStats)

	// No priced items: averages and bounds default to zero, not an error
	assert.Zero(t, amazonStats.AvgPrice)
	assert.Equal(t, models.PriceRange{}, amazonStats.PriceRange)
	assert.Equal(t, 2, amazonStats.TotalProducts)
}

func TestAmazonAdapter_Fetch_TruncatesToTwentyItems(t *testing.T) {
	items := make([]AmazonItem, 0, 30)
	for i := 0; i < 30; i++ {
		items = append(items, pricedItem(float64(i+1)))
	}

	adapter := NewAmazonAdapter(&mockAmazonClient{
		searchItemsFn: func(ctx context.Context, keyword string) ([]AmazonItem, error) {
			return items, nil
		},
	}, testLogger())

	query, err := models.NewTrendQuery(models.SourceAmazon, "usb cable", "United States", "")
	require.NoError(t, err)

	stats, err := adapter.Fetch(context.Background(), query)
	require.NoError(t, err)

	amazonStats := stats.(*models.AmazonStats)
	assert.Equal(t, 20, amazonStats.TotalProducts)
	assert.Equal(t, models.PriceRange{Min: 1, Max: 20}, amazonStats.PriceRange)
}

func TestAmazonAdapter_Fetch_ClientError(t *testing.T) {
	adapter := NewAmazonAdapter(&mockAmazonClient{
		searchItemsFn: func(ctx context.Context, keyword string) ([]AmazonItem, error) {
			return nil, errors.New("connection refused")
		},
	}, testLogger())

	query, err := models.NewTrendQuery(models.SourceAmazon, "tv", "United States", "")
	require.NoError(t, err)

	_, err = adapter.Fetch(context.Background(), query)
	require.Error(t, err)

	var sourceErr *SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, models.SourceAmazon, sourceErr.Source)
	assert.Contains(t, err.Error(), "Amazon API error")
	assert.Contains(t, err.Error(), "connection refused")
}
