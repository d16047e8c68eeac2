package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ecommerce-trend-analyzer/internal/models"
)

// etsyListingLimit bounds how many listings are fetched per request
const etsyListingLimit = 100

// EtsyShop is the shop metadata attached to a listing
type EtsyShop struct {
	CountryID string `json:"country_id"`
}

// EtsyListing is one active listing. Price is a pointer because the field is
// required: a listing without it fails the whole fetch rather than being
// skipped.
type EtsyListing struct {
	Price      *string  `json:"price"`
	IsHandmade bool     `json:"is_handmade"`
	IsVintage  bool     `json:"is_vintage"`
	Shop       EtsyShop `json:"Shop"`
}

// EtsyListingsClient exposes the active-listings search of the Etsy API
type EtsyListingsClient interface {
	// FindAllListings fetches up to 100 active listings with shop metadata,
	// optionally restricted to the given country
	FindAllListings(ctx context.Context, keyword, country string) ([]EtsyListing, error)
}

// EtsyAdapter normalizes handmade-marketplace listings into trend statistics
type EtsyAdapter struct {
	client EtsyListingsClient
	logger *slog.Logger
}

// Check interface implementation at compile-time
var _ Adapter = &EtsyAdapter{}

// NewEtsyAdapter creates a new Etsy adapter
func NewEtsyAdapter(client EtsyListingsClient, logger *slog.Logger) *EtsyAdapter {
	return &EtsyAdapter{
		client: client,
		logger: logger,
	}
}

// Fetch retrieves active listings for the keyword and derives price
// statistics, handmade/vintage tallies and the domestic vs international
// shop split. Every listing must carry a price; a missing or unparseable
// price fails the call.
func (a *EtsyAdapter) Fetch(ctx context.Context, query models.TrendQuery) (models.SourceStats, error) {
	listings, err := a.client.FindAllListings(ctx, query.Keyword, query.Country)
	if err != nil {
		return nil, &SourceError{Source: models.SourceEtsy, Err: err}
	}

	var prices []float64
	handmadeCount := 0
	vintageCount := 0
	domestic := 0
	international := 0

	for _, listing := range listings {
		if listing.Price == nil {
			return nil, &SourceError{Source: models.SourceEtsy, Err: fmt.Errorf("listing missing price field")}
		}

		price, err := strconv.ParseFloat(*listing.Price, 64)
		if err != nil {
			return nil, &SourceError{Source: models.SourceEtsy, Err: fmt.Errorf("invalid listing price %q: %w", *listing.Price, err)}
		}
		prices = append(prices, price)

		if listing.IsHandmade {
			handmadeCount++
		}
		if listing.IsVintage {
			vintageCount++
		}

		if listing.Shop.CountryID == query.Country {
			domestic++
		} else {
			international++
		}
	}

	totalListings := len(listings)

	// Fractions of the total listing count; both 0 when there are no
	// listings at all
	distribution := models.ShopLocationDistribution{}
	if totalListings > 0 {
		distribution.Domestic = float64(domestic) / float64(totalListings)
		distribution.International = float64(international) / float64(totalListings)
	}

	a.logger.Debug("Etsy fetch completed", "keyword", query.Keyword, "listings", totalListings)

	return &models.EtsyStats{
		TotalListings:    totalListings,
		AvgPrice:         models.AveragePrice(prices),
		PriceRange:       models.NewPriceRange(prices),
		HandmadeCount:    handmadeCount,
		VintageCount:     vintageCount,
		ShopDistribution: distribution,
	}, nil
}

// EtsyClient calls the Etsy listings API over HTTP.
// The API key is fixed at construction and reused across requests.
type EtsyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Check interface implementation at compile-time
var _ EtsyListingsClient = &EtsyClient{}

// NewEtsyClient creates a new Etsy API client
func NewEtsyClient(apiKey string) *EtsyClient {
	return &EtsyClient{
		apiKey:     apiKey,
		baseURL:    "https://openapi.etsy.com/v2/listings/active",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type etsyListingsResponse struct {
	Results []EtsyListing `json:"results"`
}

// FindAllListings fetches active listings matching the keyword
func (c *EtsyClient) FindAllListings(ctx context.Context, keyword, country string) ([]EtsyListing, error) {
	params := url.Values{}
	params.Set("keywords", keyword)
	params.Set("limit", strconv.Itoa(etsyListingLimit))
	params.Set("includes", "MainImage,Shop")
	params.Set("api_key", c.apiKey)

	if country != "" {
		params.Set("country", country)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listings request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listings request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read listings response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listings request returned status code %d: %s", resp.StatusCode, string(body))
	}

	var parsed etsyListingsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal listings response: %w", err)
	}

	return parsed.Results, nil
}
