package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ecommerce-trend-analyzer/internal/models"
	"ecommerce-trend-analyzer/internal/sources"
)

// AnalyzerService defines the trend analyzer interface
type AnalyzerService interface {
	Dispatch(ctx context.Context, query models.TrendQuery) (*models.TrendResult, error)
}

// ErrUnsupportedSource signals a source with no registered adapter.
// Distinct from a source fetch failure: it is raised before any remote call.
var ErrUnsupportedSource = errors.New("unsupported source")

// TrendAnalyzer selects the adapter for a query, derives the sentiment
// score and assembles the unified response envelope
type TrendAnalyzer struct {
	registry *sources.Registry
	logger   *slog.Logger
}

// Check interface implementation at compile-time
var _ AnalyzerService = &TrendAnalyzer{}

// NewTrendAnalyzer creates a new trend analyzer
func NewTrendAnalyzer(registry *sources.Registry, logger *slog.Logger) *TrendAnalyzer {
	return &TrendAnalyzer{
		registry: registry,
		logger:   logger,
	}
}

// Dispatch resolves the adapter for the query's source, fetches its
// normalized statistics and shapes them into a TrendResult. Adapter
// failures propagate unmodified; sentiment scoring never fails.
func (a *TrendAnalyzer) Dispatch(ctx context.Context, query models.TrendQuery) (*models.TrendResult, error) {
	adapter, ok := a.registry.Lookup(query.Source)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, query.Source)
	}

	stats, err := adapter.Fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	result := &models.TrendResult{
		Source:    query.Source,
		Country:   query.Country,
		Keyword:   query.Keyword,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RawStats:  stats,
		Sentiment: marketSentiment(stats),
	}

	if priceRange, ok := stats.Prices(); ok {
		result.PriceRange = &priceRange
	}

	if volume, ok := stats.Volume(); ok {
		result.SearchVolume = &volume
	}

	return result, nil
}
