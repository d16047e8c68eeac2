package models

// TrendResult is the unified response envelope for one trend request.
// Created once per request and never mutated afterwards.
type TrendResult struct {
	Source       Source      `json:"source"`
	Country      string      `json:"country"`
	Keyword      string      `json:"keyword"`
	Timestamp    string      `json:"timestamp"`
	RawStats     SourceStats `json:"raw_stats"`
	PriceRange   *PriceRange `json:"price_range,omitempty"`
	SearchVolume *int        `json:"search_volume,omitempty"`
	Sentiment    float64     `json:"sentiment"`
	Error        string      `json:"error,omitempty"`
}
