package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/logger"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/metrics"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/service"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/store"
)

type RefreshHandler struct {
	weather *service.WeatherService
	news    *service.NewsService
	market  *service.MarketService
	store   *store.Store
	metrics *metrics.Recorder
}

func NewRefreshHandler(weather *service.WeatherService, news *service.NewsService, market *service.MarketService,
	st *store.Store, m *metrics.Recorder) *RefreshHandler {
	return &RefreshHandler{weather: weather, news: news, market: market, store: st, metrics: m}
}

// POST /functions/v1/weather-forecast  body (optional): {"latitude":..,"longitude":..}
func (h *RefreshHandler) Weather(c *gin.Context) {
	var req model.ForecastRequest
	// An absent or malformed body means the default location.
	_ = c.ShouldBindJSON(&req)

	days, live := h.weather.Forecast(c.Request.Context(), req.Latitude, req.Longitude)
	outcome := metrics.OutcomeSuccess
	if !live {
		outcome = metrics.OutcomeDegraded
	}
	h.metrics.Refresh("weather", outcome, len(days))
	logger.Info("refresh.weather.done", "days", len(days), "live", live)
	c.JSON(http.StatusOK, model.ForecastResponse{Forecast: days})
}

// POST /functions/v1/fetch-news
func (h *RefreshHandler) News(c *gin.Context) {
	runRefresh(c, h.metrics, refreshJob[model.NewsArticle]{
		kind:       "news",
		table:      "farmer_news",
		missingKey: "News API key not configured",
		failed:     "Failed to fetch news",
		fetch:      h.news.Fetch,
		replace:    h.store.ReplaceNews,
	})
}

// POST /functions/v1/fetch-market-prices
func (h *RefreshHandler) Market(c *gin.Context) {
	runRefresh(c, h.metrics, refreshJob[model.MarketPrice]{
		kind:       "market",
		table:      "market_prices",
		missingKey: "Market API key not configured",
		failed:     "Failed to fetch market data",
		fetch:      h.market.Fetch,
		replace:    h.store.ReplaceMarketPrices,
	})
}

type refreshJob[T any] struct {
	kind       string
	table      string
	missingKey string
	failed     string
	fetch      func(context.Context) ([]T, error)
	replace    func(context.Context, []T) (int, error)
}

// runRefresh is fetch, then replace, then summary. A failed write is logged
// and the refresh still reports success with the fetched count.
func runRefresh[T any](c *gin.Context, m *metrics.Recorder, job refreshJob[T]) {
	ctx := c.Request.Context()

	records, err := job.fetch(ctx)
	if err != nil {
		m.Refresh(job.kind, metrics.OutcomeError, 0)
		msg := job.failed
		if errors.Is(err, service.ErrMissingKey) {
			msg = job.missingKey
		}
		logger.Error("refresh."+job.kind+".failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}

	written, err := job.replace(ctx, records)
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeDegraded
		m.StoreError(job.table)
		logger.Error("refresh."+job.kind+".store", "table", job.table, "records", len(records), "err", err)
	}
	m.Refresh(job.kind, outcome, len(records))
	logger.Info("refresh."+job.kind+".done", "count", len(records), "written", written)
	c.JSON(http.StatusOK, model.RefreshSummary{Success: true, Count: len(records)})
}
