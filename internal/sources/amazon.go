package sources

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ecommerce-trend-analyzer/internal/models"
)

// maxAmazonItems bounds how many search results are examined per request
const maxAmazonItems = 20

// AmazonItem is one product from a catalog search.
// Offers and Rating are nil when the source did not expose them.
type AmazonItem struct {
	Offers *AmazonOffers
	Rating *AmazonRating
}

// AmazonOffers lists the purchase offers of a product
type AmazonOffers struct {
	Listings []AmazonListing
}

// AmazonListing is a single purchase offer with its price
type AmazonListing struct {
	Price float64
}

// AmazonRating aggregates customer review info for a product
type AmazonRating struct {
	Count int
	Value float64
}

// AmazonSearchClient exposes the product-search operation of the
// Product Advertising API
type AmazonSearchClient interface {
	SearchItems(ctx context.Context, keyword string) ([]AmazonItem, error)
}

// AmazonAdapter normalizes Amazon catalog-search results into trend statistics
type AmazonAdapter struct {
	client AmazonSearchClient
	logger *slog.Logger
}

// Check interface implementation at compile-time
var _ Adapter = &AmazonAdapter{}

// NewAmazonAdapter creates a new Amazon adapter
func NewAmazonAdapter(client AmazonSearchClient, logger *slog.Logger) *AmazonAdapter {
	return &AmazonAdapter{
		client: client,
		logger: logger,
	}
}

// Fetch searches the catalog for the keyword and derives price and rating
// statistics over at most the first 20 results. Items without offers or
// ratings degrade the corresponding metric; they never fail the call.
func (a *AmazonAdapter) Fetch(ctx context.Context, query models.TrendQuery) (models.SourceStats, error) {
	items, err := a.client.SearchItems(ctx, query.Keyword)
	if err != nil {
		return nil, &SourceError{Source: models.SourceAmazon, Err: err}
	}

	if len(items) > maxAmazonItems {
		items = items[:maxAmazonItems]
	}

	var prices []float64
	var totalReviews int
	var totalRating float64
	productCount := 0

	for _, item := range items {
		// First listing price of each result that has an offer
		if item.Offers != nil && len(item.Offers.Listings) > 0 {
			prices = append(prices, item.Offers.Listings[0].Price)
		}

		if item.Rating != nil {
			totalReviews += item.Rating.Count
			totalRating += item.Rating.Value
		}

		productCount++
	}

	// The denominator is items inspected, not items with a rating,
	// so products without review info pull the average down.
	avgRating := 0.0
	if productCount > 0 {
		avgRating = totalRating / float64(productCount)
	}

	a.logger.Debug("Amazon fetch completed", "keyword", query.Keyword, "products", productCount, "priced", len(prices))

	return &models.AmazonStats{
		AvgPrice:      models.AveragePrice(prices),
		PriceRange:    models.NewPriceRange(prices),
		ReviewCount:   totalReviews,
		AvgRating:     avgRating,
		TotalProducts: productCount,
	}, nil
}

// paapiTarget is the operation header value for SearchItems
const paapiTarget = "com.amazon.paapi5.v1.ProductAdvertisingAPIv1.SearchItems"

// amazonMarketplace maps a region code to its PA-API host and marketplace
var amazonMarketplaces = map[string]struct {
	Host        string
	Region      string
	Marketplace string
}{
	"US": {"webservices.amazon.com", "us-east-1", "www.amazon.com"},
	"GB": {"webservices.amazon.co.uk", "eu-west-1", "www.amazon.co.uk"},
	"CA": {"webservices.amazon.ca", "us-east-1", "www.amazon.ca"},
	"AU": {"webservices.amazon.com.au", "us-west-2", "www.amazon.com.au"},
	"DE": {"webservices.amazon.de", "eu-west-1", "www.amazon.de"},
}

// PAAPIClient calls the Product Advertising API v5 over HTTP.
// Credentials are fixed at construction and reused across requests.
type PAAPIClient struct {
	accessKey  string
	secretKey  string
	partnerTag string
	host       string
	region     string

	marketplace string
	httpClient  *http.Client
}

// Check interface implementation at compile-time
var _ AmazonSearchClient = &PAAPIClient{}

// NewPAAPIClient creates a PA-API client for the given region code.
// Unknown regions fall back to the US marketplace.
func NewPAAPIClient(accessKey, secretKey, partnerTag, region string) *PAAPIClient {
	mp, ok := amazonMarketplaces[strings.ToUpper(region)]
	if !ok {
		mp = amazonMarketplaces["US"]
	}

	return &PAAPIClient{
		accessKey:   accessKey,
		secretKey:   secretKey,
		partnerTag:  partnerTag,
		host:        mp.Host,
		region:      mp.Region,
		marketplace: mp.Marketplace,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
	}
}

type paapiSearchRequest struct {
	Keywords    string   `json:"Keywords"`
	PartnerTag  string   `json:"PartnerTag"`
	PartnerType string   `json:"PartnerType"`
	Marketplace string   `json:"Marketplace"`
	ItemCount   int      `json:"ItemCount"`
	Resources   []string `json:"Resources"`
}

type paapiSearchResponse struct {
	SearchResult struct {
		Items []struct {
			Offers *struct {
				Listings []struct {
					Price struct {
						Amount float64 `json:"Amount"`
					} `json:"Price"`
				} `json:"Listings"`
			} `json:"Offers"`
			CustomerReviews *struct {
				Count      int `json:"Count"`
				StarRating struct {
					Value float64 `json:"Value"`
				} `json:"StarRating"`
			} `json:"CustomerReviews"`
		} `json:"Items"`
	} `json:"SearchResult"`
	Errors []struct {
		Code    string `json:"Code"`
		Message string `json:"Message"`
	} `json:"Errors"`
}

// SearchItems issues a signed SearchItems call and maps the response items
func (c *PAAPIClient) SearchItems(ctx context.Context, keyword string) ([]AmazonItem, error) {
	payload, err := json.Marshal(paapiSearchRequest{
		Keywords:    keyword,
		PartnerTag:  c.partnerTag,
		PartnerType: "Associates",
		Marketplace: c.marketplace,
		ItemCount:   10,
		Resources: []string{
			"ItemInfo.Title",
			"Offers.Listings.Price",
			"CustomerReviews.Count",
			"CustomerReviews.StarRating",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+c.host+"/paapi5/searchitems", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("X-Amz-Target", paapiTarget)
	req.Header.Set("Content-Encoding", "amz-1.0")
	c.sign(req, payload)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var parsed paapiSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal search response: %w", err)
	}

	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("%s: %s", parsed.Errors[0].Code, parsed.Errors[0].Message)
	}

	items := make([]AmazonItem, 0, len(parsed.SearchResult.Items))
	for _, raw := range parsed.SearchResult.Items {
		item := AmazonItem{}

		if raw.Offers != nil && len(raw.Offers.Listings) > 0 {
			offers := &AmazonOffers{}
			for _, listing := range raw.Offers.Listings {
				offers.Listings = append(offers.Listings, AmazonListing{Price: listing.Price.Amount})
			}
			item.Offers = offers
		}

		if raw.CustomerReviews != nil {
			item.Rating = &AmazonRating{
				Count: raw.CustomerReviews.Count,
				Value: raw.CustomerReviews.StarRating.Value,
			}
		}

		items = append(items, item)
	}

	return items, nil
}

// sign applies an AWS Signature Version 4 to the request, as required by
// the PA-API. Only the headers the API includes in its canonical form are
// signed: content-type, host, x-amz-date and x-amz-target.
func (c *PAAPIClient) sign(req *http.Request, payload []byte) {
	now := time.Now().UTC()
	amzDate := now.Format("20060102T150405Z")
	dateStamp := now.Format("20060102")

	req.Header.Set("X-Amz-Date", amzDate)

	payloadHash := sha256.Sum256(payload)

	canonicalHeaders := fmt.Sprintf("content-type:%s\nhost:%s\nx-amz-date:%s\nx-amz-target:%s\n",
		req.Header.Get("Content-Type"), c.host, amzDate, paapiTarget)
	signedHeaders := "content-type;host;x-amz-date;x-amz-target"

	canonicalRequest := strings.Join([]string{
		http.MethodPost,
		"/paapi5/searchitems",
		"",
		canonicalHeaders,
		signedHeaders,
		hex.EncodeToString(payloadHash[:]),
	}, "\n")

	credentialScope := fmt.Sprintf("%s/%s/ProductAdvertisingAPI/aws4_request", dateStamp, c.region)
	requestHash := sha256.Sum256([]byte(canonicalRequest))

	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		credentialScope,
		hex.EncodeToString(requestHash[:]),
	}, "\n")

	signingKey := hmacSHA256([]byte("AWS4"+c.secretKey), dateStamp)
	signingKey = hmacSHA256(signingKey, c.region)
	signingKey = hmacSHA256(signingKey, "ProductAdvertisingAPI")
	signingKey = hmacSHA256(signingKey, "aws4_request")
	signature := hex.EncodeToString(hmacSHA256(signingKey, stringToSign))

	req.Header.Set("Authorization", fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		c.accessKey, credentialScope, signedHeaders, signature))
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
