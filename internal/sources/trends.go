package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"ecommerce-trend-analyzer/internal/models"
)

// regionCodes maps the country names the service recognizes to the
// two-letter region code Google Trends expects. Matching is
// case-insensitive; unrecognized names fall back to defaultRegion.
var regionCodes = map[string]string{
	"united states":  "US",
	"united kingdom": "GB",
	"canada":         "CA",
	"australia":      "AU",
	"germany":        "DE",
}

const defaultRegion = "US"

// RegionCode resolves a country name to a Google Trends region code
func RegionCode(country string) string {
	if code, ok := regionCodes[strings.ToLower(country)]; ok {
		return code
	}
	return defaultRegion
}

// GoogleTrendsClient exposes the three search-interest views the adapter
// needs. A view with no data for the keyword/timeframe/region returns an
// empty structure, not an error.
type GoogleTrendsClient interface {
	InterestOverTime(ctx context.Context, keyword string, timeframe models.Timeframe, geo string) (models.InterestOverTime, error)
	RelatedQueries(ctx context.Context, keyword string, timeframe models.Timeframe, geo string) (models.RelatedSet, error)
	RelatedTopics(ctx context.Context, keyword string, timeframe models.Timeframe, geo string) (models.RelatedSet, error)
}

// GoogleAdapter normalizes search-interest data into trend statistics
type GoogleAdapter struct {
	client GoogleTrendsClient
	logger *slog.Logger
}

// Check interface implementation at compile-time
var _ Adapter = &GoogleAdapter{}

// NewGoogleAdapter creates a new Google Trends adapter
func NewGoogleAdapter(client GoogleTrendsClient, logger *slog.Logger) *GoogleAdapter {
	return &GoogleAdapter{
		client: client,
		logger: logger,
	}
}

// Fetch retrieves the interest time series plus related queries and topics
// for the keyword within the requested timeframe and region. Each view that
// reports no data degrades to an empty structure; a failing view fails the
// whole call.
func (a *GoogleAdapter) Fetch(ctx context.Context, query models.TrendQuery) (models.SourceStats, error) {
	geo := RegionCode(query.Country)

	interest, err := a.client.InterestOverTime(ctx, query.Keyword, query.Timeframe, geo)
	if err != nil {
		return nil, &SourceError{Source: models.SourceGoogle, Err: err}
	}

	queries, err := a.client.RelatedQueries(ctx, query.Keyword, query.Timeframe, geo)
	if err != nil {
		return nil, &SourceError{Source: models.SourceGoogle, Err: err}
	}

	topics, err := a.client.RelatedTopics(ctx, query.Keyword, query.Timeframe, geo)
	if err != nil {
		return nil, &SourceError{Source: models.SourceGoogle, Err: err}
	}

	a.logger.Debug("Google Trends fetch completed", "keyword", query.Keyword, "geo", geo, "points", len(interest.Dates))

	return &models.GoogleStats{
		InterestOverTime: interest,
		RelatedQueries:   queries,
		RelatedTopics:    topics,
	}, nil
}

// Widget ids used by the Trends explore endpoint
const (
	widgetTimeseries     = "TIMESERIES"
	widgetRelatedQueries = "RELATED_QUERIES"
	widgetRelatedTopics  = "RELATED_TOPICS"
)

// TrendsClient calls the Google Trends widget API over HTTP.
// Every view is a two-step exchange: an explore call hands out a widget
// token, then the widget endpoint returns the data. Both replies carry a
// ")]}'" anti-XSSI prefix ahead of the JSON body.
type TrendsClient struct {
	hl         string
	baseURL    string
	httpClient *http.Client
}

// Check interface implementation at compile-time
var _ GoogleTrendsClient = &TrendsClient{}

// NewTrendsClient creates a Trends client with the given host language
// (e.g. en-US)
func NewTrendsClient(hl string) *TrendsClient {
	if hl == "" {
		hl = "en-US"
	}

	return &TrendsClient{
		hl:         hl,
		baseURL:    "https://trends.google.com/trends/api",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// InterestOverTime fetches the interest time series as parallel
// date/value sequences. Empty when the source reports no data.
func (c *TrendsClient) InterestOverTime(ctx context.Context, keyword string, timeframe models.Timeframe, geo string) (models.InterestOverTime, error) {
	raw, err := c.fetchWidget(ctx, keyword, timeframe, geo, widgetTimeseries, "widgetdata/multiline")
	if err != nil {
		return models.InterestOverTime{}, err
	}

	series := models.InterestOverTime{}
	for _, point := range gjson.GetBytes(raw, "default.timelineData").Array() {
		date := time.Unix(point.Get("time").Int(), 0).UTC().Format("2006-01-02")
		series.Dates = append(series.Dates, date)
		series.Values = append(series.Values, point.Get("value.0").Float())
	}

	return series, nil
}

// RelatedQueries fetches the top and rising related queries
func (c *TrendsClient) RelatedQueries(ctx context.Context, keyword string, timeframe models.Timeframe, geo string) (models.RelatedSet, error) {
	raw, err := c.fetchWidget(ctx, keyword, timeframe, geo, widgetRelatedQueries, "widgetdata/relatedsearches")
	if err != nil {
		return models.RelatedSet{}, err
	}

	return parseRankedLists(raw, "query"), nil
}

// RelatedTopics fetches the top and rising related topics
func (c *TrendsClient) RelatedTopics(ctx context.Context, keyword string, timeframe models.Timeframe, geo string) (models.RelatedSet, error) {
	raw, err := c.fetchWidget(ctx, keyword, timeframe, geo, widgetRelatedTopics, "widgetdata/relatedsearches")
	if err != nil {
		return models.RelatedSet{}, err
	}

	return parseRankedLists(raw, "topic.title"), nil
}

// parseRankedLists extracts the top and rising entries of a related view.
// The first ranked list holds the top entries, the second the rising ones;
// missing lists degrade to empty slices.
func parseRankedLists(raw []byte, titlePath string) models.RelatedSet {
	set := models.RelatedSet{
		Top:    []models.RelatedEntry{},
		Rising: []models.RelatedEntry{},
	}

	lists := gjson.GetBytes(raw, "default.rankedList").Array()
	if len(lists) > 0 {
		set.Top = rankedEntries(lists[0], titlePath)
	}
	if len(lists) > 1 {
		set.Rising = rankedEntries(lists[1], titlePath)
	}

	return set
}

func rankedEntries(list gjson.Result, titlePath string) []models.RelatedEntry {
	entries := []models.RelatedEntry{}
	for _, ranked := range list.Get("rankedKeyword").Array() {
		entries = append(entries, models.RelatedEntry{
			Title: ranked.Get(titlePath).String(),
			Value: int(ranked.Get("value").Int()),
		})
	}

	return entries
}

// fetchWidget runs the explore call, picks the widget with the given id and
// retrieves its data from the widget endpoint
func (c *TrendsClient) fetchWidget(ctx context.Context, keyword string, timeframe models.Timeframe, geo, widgetID, endpoint string) ([]byte, error) {
	token, request, err := c.explore(ctx, keyword, timeframe, geo, widgetID)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("hl", c.hl)
	params.Set("tz", "0")
	params.Set("req", request)
	params.Set("token", token)

	return c.get(ctx, endpoint, params)
}

type trendsExploreRequest struct {
	ComparisonItem []trendsComparisonItem `json:"comparisonItem"`
	Category       int                    `json:"category"`
	Property       string                 `json:"property"`
}

type trendsComparisonItem struct {
	Keyword string `json:"keyword"`
	Geo     string `json:"geo"`
	Time    string `json:"time"`
}

func (c *TrendsClient) explore(ctx context.Context, keyword string, timeframe models.Timeframe, geo, widgetID string) (token, request string, err error) {
	req, err := json.Marshal(trendsExploreRequest{
		ComparisonItem: []trendsComparisonItem{{
			Keyword: keyword,
			Geo:     geo,
			Time:    string(timeframe),
		}},
		Category: 0,
		Property: "",
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal explore request: %w", err)
	}

	params := url.Values{}
	params.Set("hl", c.hl)
	params.Set("tz", "0")
	params.Set("req", string(req))

	body, err := c.get(ctx, "explore", params)
	if err != nil {
		return "", "", err
	}

	for _, widget := range gjson.GetBytes(body, "widgets").Array() {
		if widget.Get("id").String() == widgetID {
			return widget.Get("token").String(), widget.Get("request").Raw, nil
		}
	}

	return "", "", fmt.Errorf("explore reply has no %s widget", widgetID)
}

func (c *TrendsClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status code %d", endpoint, resp.StatusCode)
	}

	return stripXSSIPrefix(body), nil
}

// stripXSSIPrefix drops the ")]}'" guard Google prepends to widget replies
func stripXSSIPrefix(body []byte) []byte {
	if idx := bytes.IndexAny(body, "{["); idx > 0 {
		return body[idx:]
	}
	return body
}
