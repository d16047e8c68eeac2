package models

import (
	"fmt"
	"unicode/utf8"
)

// Source identifies one external data source
type Source string

const (
	SourceAmazon Source = "amazon"
	SourceEbay   Source = "ebay"
	SourceEtsy   Source = "etsy"
	SourceGoogle Source = "google"
)

// ValidSources lists all accepted source values
var ValidSources = map[Source]bool{
	SourceAmazon: true,
	SourceEbay:   true,
	SourceEtsy:   true,
	SourceGoogle: true,
}

// Timeframe is a relative time window, used only by the Google Trends source
type Timeframe string

const (
	TimeframeLastHour     Timeframe = "now 1-H"
	TimeframeLastDay      Timeframe = "now 1-d"
	TimeframeLastWeek     Timeframe = "now 7-d"
	TimeframeLastMonth    Timeframe = "today 1-m"
	TimeframeLast3Months  Timeframe = "today 3-m"
	TimeframeLast12Months Timeframe = "today 12-m"
	TimeframeLast5Years   Timeframe = "today 5-y"
)

// DefaultTimeframe is applied when no timeframe is supplied
const DefaultTimeframe = TimeframeLast3Months

// ValidTimeframes lists all supported timeframe values
var ValidTimeframes = map[Timeframe]bool{
	TimeframeLastHour:     true,
	TimeframeLastDay:      true,
	TimeframeLastWeek:     true,
	TimeframeLastMonth:    true,
	TimeframeLast3Months:  true,
	TimeframeLast12Months: true,
	TimeframeLast5Years:   true,
}

// TrendQuery is a single validated trend request.
// Immutable once constructed via NewTrendQuery.
type TrendQuery struct {
	Source    Source
	Keyword   string
	Country   string
	Timeframe Timeframe
}

// NewTrendQuery validates the inbound parameters and builds a query.
// An empty timeframe defaults to the last 3 months.
func NewTrendQuery(source Source, keyword, country string, timeframe Timeframe) (TrendQuery, error) {
	if !ValidSources[source] {
		return TrendQuery{}, fmt.Errorf("invalid source: %q (must be one of: amazon, ebay, etsy, google)", source)
	}

	// Bounds are in characters, not bytes, so multibyte input is measured
	// by rune count
	if n := utf8.RuneCountInString(keyword); n < 1 || n > 100 {
		return TrendQuery{}, fmt.Errorf("keyword must be between 1 and 100 characters, got %d", n)
	}

	if n := utf8.RuneCountInString(country); n < 2 || n > 56 {
		return TrendQuery{}, fmt.Errorf("country must be between 2 and 56 characters, got %d", n)
	}

	if timeframe == "" {
		timeframe = DefaultTimeframe
	}
	if !ValidTimeframes[timeframe] {
		return TrendQuery{}, fmt.Errorf("invalid timeframe: %q", timeframe)
	}

	return TrendQuery{
		Source:    source,
		Keyword:   keyword,
		Country:   country,
		Timeframe: timeframe,
	}, nil
}
