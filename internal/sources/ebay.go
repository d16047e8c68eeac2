package sources

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"ecommerce-trend-analyzer/internal/models"
)

// ebayEntriesPerPage is the page size requested from the Finding API
const ebayEntriesPerPage = 100

// EbayFindingClient exposes the two Finding API searches the adapter needs.
// Both return the raw JSON reply; the adapter owns the parsing because the
// Finding API wraps every field in a single-element array.
type EbayFindingClient interface {
	// FindItemsAdvanced searches active listings, best-match order,
	// optionally restricted to listings located in the given country
	FindItemsAdvanced(ctx context.Context, keyword, country string) ([]byte, error)

	// FindCompletedItems searches completed listings filtered to sold items
	FindCompletedItems(ctx context.Context, keyword string) ([]byte, error)
}

// EbayAdapter normalizes auction-marketplace search replies into trend statistics
type EbayAdapter struct {
	client EbayFindingClient
	logger *slog.Logger
}

// Check interface implementation at compile-time
var _ Adapter = &EbayAdapter{}

// NewEbayAdapter creates a new eBay adapter
func NewEbayAdapter(client EbayFindingClient, logger *slog.Logger) *EbayAdapter {
	return &EbayAdapter{
		client: client,
		logger: logger,
	}
}

// Fetch issues one active-listings search and one sold-items search for the
// keyword, then derives listing counts and price statistics. Items without a
// current price degrade the price sample, never the call.
func (a *EbayAdapter) Fetch(ctx context.Context, query models.TrendQuery) (models.SourceStats, error) {
	activeRaw, err := a.client.FindItemsAdvanced(ctx, query.Keyword, query.Country)
	if err != nil {
		return nil, &SourceError{Source: models.SourceEbay, Err: err}
	}

	completedRaw, err := a.client.FindCompletedItems(ctx, query.Keyword)
	if err != nil {
		return nil, &SourceError{Source: models.SourceEbay, Err: err}
	}

	stats, err := a.parseReplies(activeRaw, completedRaw)
	if err != nil {
		return nil, &SourceError{Source: models.SourceEbay, Err: err}
	}

	a.logger.Debug("eBay fetch completed", "keyword", query.Keyword, "active_listings", stats.ActiveListings, "sold", stats.SoldLastMonth)

	return stats, nil
}

func (a *EbayAdapter) parseReplies(activeRaw, completedRaw []byte) (*models.EbayStats, error) {
	active := gjson.GetBytes(activeRaw, "findItemsAdvancedResponse.0")
	if !active.Exists() {
		return nil, fmt.Errorf("malformed findItemsAdvanced reply: missing response root")
	}

	if ack := active.Get("ack.0").String(); ack != "Success" && ack != "Warning" {
		return nil, fmt.Errorf("findItemsAdvanced returned ack %q: %s", ack,
			active.Get("errorMessage.0.error.0.message.0").String())
	}

	// The reported total is required; the item list may legitimately be empty
	totalEntries := active.Get("paginationOutput.0.totalEntries.0")
	if !totalEntries.Exists() {
		return nil, fmt.Errorf("malformed findItemsAdvanced reply: missing totalEntries")
	}

	items := active.Get("searchResult.0.item").Array()

	var prices []float64
	for _, item := range items {
		price := item.Get("sellingStatus.0.currentPrice.0.__value__")
		if price.Exists() {
			prices = append(prices, price.Float())
		}
	}

	completed := gjson.GetBytes(completedRaw, "findCompletedItemsResponse.0")
	if !completed.Exists() {
		return nil, fmt.Errorf("malformed findCompletedItems reply: missing response root")
	}

	soldCount := len(completed.Get("searchResult.0.item").Array())

	return &models.EbayStats{
		ActiveListings: int(totalEntries.Int()),
		SoldLastMonth:  soldCount,
		AvgPrice:       models.AveragePrice(prices),
		PriceRange:     models.NewPriceRange(prices),
		TotalResults:   len(items),
	}, nil
}

// FindingClient calls the eBay Finding API over HTTP.
// The application ID is fixed at construction and reused across requests.
type FindingClient struct {
	appID      string
	baseURL    string
	httpClient *http.Client
}

// Check interface implementation at compile-time
var _ EbayFindingClient = &FindingClient{}

// NewFindingClient creates a Finding API client for the given service domain
// (e.g. svcs.ebay.com)
func NewFindingClient(appID, domain string) *FindingClient {
	return &FindingClient{
		appID:      appID,
		baseURL:    "https://" + domain + "/services/search/FindingService/v1",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// FindItemsAdvanced searches active listings for the keyword
func (c *FindingClient) FindItemsAdvanced(ctx context.Context, keyword, country string) ([]byte, error) {
	params := url.Values{}
	params.Set("keywords", keyword)
	params.Set("paginationInput.entriesPerPage", fmt.Sprintf("%d", ebayEntriesPerPage))
	params.Set("sortOrder", "BestMatch")

	if country != "" {
		params.Set("itemFilter(0).name", "LocatedIn")
		params.Set("itemFilter(0).value", country)
	}

	return c.execute(ctx, "findItemsAdvanced", params)
}

// FindCompletedItems searches completed listings, sold items only
func (c *FindingClient) FindCompletedItems(ctx context.Context, keyword string) ([]byte, error) {
	params := url.Values{}
	params.Set("keywords", keyword)
	params.Set("paginationInput.entriesPerPage", fmt.Sprintf("%d", ebayEntriesPerPage))
	params.Set("itemFilter(0).name", "SoldItemsOnly")
	params.Set("itemFilter(0).value", "true")

	return c.execute(ctx, "findCompletedItems", params)
}

func (c *FindingClient) execute(ctx context.Context, operation string, params url.Values) ([]byte, error) {
	params.Set("OPERATION-NAME", operation)
	params.Set("SERVICE-VERSION", "1.13.0")
	params.Set("SECURITY-APPNAME", c.appID)
	params.Set("RESPONSE-DATA-FORMAT", "JSON")
	params.Set("REST-PAYLOAD", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", operation, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status code %d: %s", operation, resp.StatusCode, string(body))
	}

	return body, nil
}
