package models

// PriceRange holds the extremes of a price sample.
// Both bounds are 0 when no priced items were observed.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewPriceRange computes the min/max over a price sample
func NewPriceRange(prices []float64) PriceRange {
	if len(prices) == 0 {
		return PriceRange{}
	}

	pr := PriceRange{Min: prices[0], Max: prices[0]}
	for _, p := range prices[1:] {
		if p < pr.Min {
			pr.Min = p
		}
		if p > pr.Max {
			pr.Max = p
		}
	}

	return pr
}

// AveragePrice computes the arithmetic mean of a price sample.
// An empty sample averages to 0, never a division-by-zero failure.
func AveragePrice(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}

	var sum float64
	for _, p := range prices {
		sum += p
	}

	return sum / float64(len(prices))
}

// SourceStats is the normalized statistics payload of one source adapter.
// Each source has its own variant; the aggregator only relies on this
// interface to shape the response envelope.
type SourceStats interface {
	// StatsSource reports which source produced the payload
	StatsSource() Source

	// Prices returns the observed price range and whether the source
	// produced price observations at all
	Prices() (PriceRange, bool)

	// Volume returns the count of items examined and whether the source
	// reports one
	Volume() (int, bool)

	// Marker method restricting the union to this package
	sourceStats()
}

// AmazonStats holds normalized product-search statistics
type AmazonStats struct {
	AvgPrice      float64    `json:"avg_price"`
	PriceRange    PriceRange `json:"price_range"`
	ReviewCount   int        `json:"review_count"`
	AvgRating     float64    `json:"avg_rating"`
	TotalProducts int        `json:"total_products"`
}

func (s *AmazonStats) StatsSource() Source        { return SourceAmazon }
func (s *AmazonStats) Prices() (PriceRange, bool) { return s.PriceRange, true }
func (s *AmazonStats) Volume() (int, bool)        { return s.TotalProducts, true }
func (s *AmazonStats) sourceStats()               {}

// EbayStats holds normalized auction-marketplace statistics
type EbayStats struct {
	ActiveListings int        `json:"active_listings"`
	SoldLastMonth  int        `json:"sold_last_month"`
	AvgPrice       float64    `json:"avg_price"`
	PriceRange     PriceRange `json:"price_range"`
	TotalResults   int        `json:"total_results"`
}

func (s *EbayStats) StatsSource() Source        { return SourceEbay }
func (s *EbayStats) Prices() (PriceRange, bool) { return s.PriceRange, true }
func (s *EbayStats) Volume() (int, bool)        { return 0, false }
func (s *EbayStats) sourceStats()               {}

// ShopLocationDistribution partitions listings by shop country,
// expressed as fractions of the total listing count
type ShopLocationDistribution struct {
	Domestic      float64 `json:"domestic"`
	International float64 `json:"international"`
}

// EtsyStats holds normalized handmade-marketplace statistics
type EtsyStats struct {
	TotalListings    int                      `json:"total_listings"`
	AvgPrice         float64                  `json:"avg_price"`
	PriceRange       PriceRange               `json:"price_range"`
	HandmadeCount    int                      `json:"handmade_count"`
	VintageCount     int                      `json:"vintage_count"`
	ShopDistribution ShopLocationDistribution `json:"shop_location_distribution"`
}

func (s *EtsyStats) StatsSource() Source        { return SourceEtsy }
func (s *EtsyStats) Prices() (PriceRange, bool) { return s.PriceRange, true }
func (s *EtsyStats) Volume() (int, bool)        { return s.TotalListings, true }
func (s *EtsyStats) sourceStats()               {}

// InterestOverTime is a time series of search interest values,
// returned as parallel date/value sequences
type InterestOverTime struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// RelatedEntry is one related query or topic with its relative interest value
type RelatedEntry struct {
	Title string `json:"title"`
	Value int    `json:"value"`
}

// RelatedSet groups the "top" and "rising" variants of a related view
type RelatedSet struct {
	Top    []RelatedEntry `json:"top"`
	Rising []RelatedEntry `json:"rising"`
}

// GoogleStats holds normalized search-interest statistics
type GoogleStats struct {
	InterestOverTime InterestOverTime `json:"interest_over_time"`
	RelatedQueries   RelatedSet       `json:"related_queries"`
	RelatedTopics    RelatedSet       `json:"related_topics"`
}

func (s *GoogleStats) StatsSource() Source        { return SourceGoogle }
func (s *GoogleStats) Prices() (PriceRange, bool) { return PriceRange{}, false }
func (s *GoogleStats) Volume() (int, bool)        { return 0, false }
func (s *GoogleStats) sourceStats()               {}
