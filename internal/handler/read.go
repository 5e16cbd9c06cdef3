package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/logger"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/middleware"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/store"
)

// ReadHandler serves what the refresh handlers stored.
type ReadHandler struct {
	store *store.Store
}

func NewReadHandler(st *store.Store) *ReadHandler { return &ReadHandler{store: st} }

// GET /api/news
func (h *ReadHandler) News(c *gin.Context) {
	news, err := h.store.ListNews(c.Request.Context(), 0)
	if err != nil {
		logger.Error("read.news", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load news"})
		return
	}
	if news == nil {
		news = []model.NewsArticle{}
	}
	c.JSON(http.StatusOK, gin.H{"news": news})
}

// GET /api/market-prices?q=onion&state=Punjab
func (h *ReadHandler) MarketPrices(c *gin.Context) {
	prices, err := h.store.ListMarketPrices(c.Request.Context(), model.PriceFilter{
		Query: c.Query("q"),
		State: c.Query("state"),
	})
	if err != nil {
		logger.Error("read.market", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load market prices"})
		return
	}
	if prices == nil {
		prices = []model.MarketPrice{}
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices})
}

// GET /api/detections?limit=20
func (h *ReadHandler) Detections(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	uid := middleware.UserID(c)
	rows, err := h.store.ListDetections(c.Request.Context(), uid, limit)
	if err != nil {
		logger.Error("read.detections", "uid", uid, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load detection history"})
		return
	}
	if rows == nil {
		rows = []model.DiseaseDetection{}
	}
	c.JSON(http.StatusOK, gin.H{"detections": rows})
}

// GET /healthz
func (h *ReadHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		logger.Warn("health.store", "err", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
