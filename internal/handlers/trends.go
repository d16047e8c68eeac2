package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ecommerce-trend-analyzer/internal/metrics"
	"ecommerce-trend-analyzer/internal/models"
	"ecommerce-trend-analyzer/internal/services"
	"ecommerce-trend-analyzer/internal/sources"
)

// Version is reported by the root and health endpoints
const Version = "1.0.0"

// TrendsHandler handles HTTP requests for trend analysis
type TrendsHandler struct {
	analyzer services.AnalyzerService
	logger   *slog.Logger
}

// NewTrendsHandler creates a new trends request handler
func NewTrendsHandler(analyzer services.AnalyzerService, logger *slog.Logger) *TrendsHandler {
	return &TrendsHandler{
		analyzer: analyzer,
		logger:   logger,
	}
}

// Register wires the handler's routes into the echo instance
func (h *TrendsHandler) Register(e *echo.Echo) {
	e.POST("/trends", h.HandleTrends)
	e.GET("/", h.HandleRoot)
	e.GET("/healthz", h.HandleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// TrendRequest is the inbound request body for POST /trends
type TrendRequest struct {
	Source    string `json:"source"`
	Country   string `json:"country"`
	Keyword   string `json:"keyword"`
	Timeframe string `json:"timeframe,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleTrends processes a trend request: validates the parameters,
// dispatches to the analyzer and returns the unified result
func (h *TrendsHandler) HandleTrends(c echo.Context) error {
	var req TrendRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	query, err := models.NewTrendQuery(models.Source(req.Source), req.Keyword, req.Country, models.Timeframe(req.Timeframe))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	h.logger.Info("Processing trend request", "source", query.Source, "keyword", query.Keyword, "country", query.Country)

	start := time.Now()
	result, err := h.analyzer.Dispatch(c.Request().Context(), query)
	metrics.TrendRequestDuration.WithLabelValues(string(query.Source)).Observe(time.Since(start).Seconds())

	if err != nil {
		return h.sendDispatchError(c, query, err)
	}

	metrics.TrendRequestsTotal.WithLabelValues(string(query.Source), "success").Inc()
	h.logger.Info("Trend request completed", "source", query.Source, "keyword", query.Keyword, "sentiment", result.Sentiment)

	return c.JSON(http.StatusOK, result)
}

// sendDispatchError maps analyzer failures onto the response surface:
// an unsupported source is a client error, an upstream fetch failure a
// bad gateway, anything else an internal error.
func (h *TrendsHandler) sendDispatchError(c echo.Context, query models.TrendQuery, err error) error {
	var sourceErr *sources.SourceError

	switch {
	case errors.Is(err, services.ErrUnsupportedSource):
		metrics.TrendRequestsTotal.WithLabelValues(string(query.Source), "unsupported").Inc()
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})

	case errors.As(err, &sourceErr):
		metrics.TrendRequestsTotal.WithLabelValues(string(query.Source), "source_failure").Inc()
		metrics.SourceFailuresTotal.WithLabelValues(string(sourceErr.Source)).Inc()
		h.logger.Error("Source fetch failed", "source", query.Source, "keyword", query.Keyword, "err", err.Error())
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})

	default:
		metrics.TrendRequestsTotal.WithLabelValues(string(query.Source), "error").Inc()
		h.logger.Error("Trend request failed", "source", query.Source, "err", err.Error())
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to process trend request"})
	}
}

// HandleRoot reports API information
func (h *TrendsHandler) HandleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":      "E-commerce Trend Analyzer API",
		"version":   Version,
		"endpoints": []string{"/trends", "/healthz"},
	})
}

// HandleHealth reports service liveness
func (h *TrendsHandler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}
