package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecommerce-trend-analyzer/internal/models"
	"ecommerce-trend-analyzer/internal/sources"
)

// mockAdapter is a mock source adapter for testing
type mockAdapter struct {
	fetchFn func(ctx context.Context, query models.TrendQuery) (models.SourceStats, error)
	calls   int
}

// Check interface implementation at compile-time
var _ sources.Adapter = &mockAdapter{}

func (m *mockAdapter) Fetch(ctx context.Context, query models.TrendQuery) (models.SourceStats, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(ctx, query)
	}
	return &models.GoogleStats{}, nil
}

// testLogger creates a logger that discards output for testing
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTrendAnalyzer_Dispatch_AmazonEnvelope(t *testing.T) {
	stats := &models.AmazonStats{
		AvgPrice:      20,
		PriceRange:    models.PriceRange{Min: 10, Max: 30},
		ReviewCount:   200,
		AvgRating:     3.0,
		TotalProducts: 3,
	}

	adapter := &mockAdapter{
		fetchFn: func(ctx context.Context, query models.TrendQuery) (models.SourceStats, error) {
			return stats, nil
		},
	}

	analyzer := NewTrendAnalyzer(sources.NewRegistry(map[models.Source]sources.Adapter{
		models.SourceAmazon: adapter,
	}), testLogger())

	query, err := models.NewTrendQuery(models.SourceAmazon, "wireless headphones", "United States", "")
	require.NoError(t, err)

	result, err := analyzer.Dispatch(context.Background(), query)
	require.NoError(t, err)

	assert.Equal(t, models.SourceAmazon, result.Source)
	assert.Equal(t, "United States", result.Country)
	assert.Equal(t, "wireless headphones", result.Keyword)
	assert.Equal(t, stats, result.RawStats)

	require.NotNil(t, result.PriceRange)
	assert.Equal(t, models.PriceRange{Min: 10, Max: 30}, *result.PriceRange)

	require.NotNil(t, result.SearchVolume)
	assert.Equal(t, 3, *result.SearchVolume)

	// avg rating 3.0 out of 5
	assert.InDelta(t, 0.6, result.Sentiment, 1e-9)

	_, err = time.Parse(time.RFC3339, result.Timestamp)
	assert.NoError(t, err)
}

func TestTrendAnalyzer_Dispatch_GoogleEnvelopeOmitsPriceFields(t *testing.T) {
	adapter := &mockAdapter{
		fetchFn: func(ctx context.Context, query models.TrendQuery) (models.SourceStats, error) {
			assert.Equal(t, models.TimeframeLastWeek, query.Timeframe)
			return &models.GoogleStats{}, nil
		},
	}

	analyzer := NewTrendAnalyzer(sources.NewRegistry(map[models.Source]sources.Adapter{
		models.SourceGoogle: adapter,
	}), testLogger())

	query, err := models.NewTrendQuery(models.SourceGoogle, "smart watch", "United States", models.TimeframeLastWeek)
	require.NoError(t, err)

	result, err := analyzer.Dispatch(context.Background(), query)
	require.NoError(t, err)

	assert.Nil(t, result.PriceRange)
	assert.Nil(t, result.SearchVolume)
	assert.InDelta(t, neutralSentiment, result.Sentiment, 1e-9)
}

func TestTrendAnalyzer_Dispatch_UnsupportedSource(t *testing.T) {
	// Registered adapters must not be touched when the source has no handler
	amazonAdapter := &mockAdapter{}

	analyzer := NewTrendAnalyzer(sources.NewRegistry(map[models.Source]sources.Adapter{
		models.SourceAmazon: amazonAdapter,
	}), testLogger())

	// "etsy" is a valid inbound source value, but no handler is registered
	query, err := models.NewTrendQuery(models.SourceEtsy, "handmade jewelry", "Canada", "")
	require.NoError(t, err)

	_, err = analyzer.Dispatch(context.Background(), query)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSource)
	assert.Contains(t, err.Error(), "etsy")
	assert.Zero(t, amazonAdapter.calls)
}

func TestTrendAnalyzer_Dispatch_AdapterFailurePropagates(t *testing.T) {
	fetchErr := &sources.SourceError{Source: models.SourceEbay, Err: assert.AnError}

	analyzer := NewTrendAnalyzer(sources.NewRegistry(map[models.Source]sources.Adapter{
		models.SourceEbay: &mockAdapter{
			fetchFn: func(ctx context.Context, query models.TrendQuery) (models.SourceStats, error) {
				return nil, fetchErr
			},
		},
	}), testLogger())

	query, err := models.NewTrendQuery(models.SourceEbay, "smart watch", "United Kingdom", "")
	require.NoError(t, err)

	_, err = analyzer.Dispatch(context.Background(), query)
	require.Error(t, err)

	var sourceErr *sources.SourceError
	require.ErrorAs(t, err, &sourceErr)
	assert.Equal(t, models.SourceEbay, sourceErr.Source)
}
