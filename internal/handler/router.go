package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/config"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/logger"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/metrics"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/middleware"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/service"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/store"
)

// NewRouter wires every endpoint onto a fresh engine. m may be nil.
func NewRouter(cfg *config.Config, st *store.Store, m *metrics.Recorder) *gin.Engine {
	up := service.NewUpstream(time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second, m)
	ai := service.NewAIService(cfg, up)

	refreshH := NewRefreshHandler(
		service.NewWeatherService(cfg, up),
		service.NewNewsService(cfg, up),
		service.NewMarketService(cfg, up),
		st, m,
	)
	detectH := NewDetectHandler(ai, st, m)
	chatH := NewChatHandler(ai, m)
	readH := NewReadHandler(st)

	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:              []string{"*"},
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"Authorization", "X-Client-Info", "Apikey", "Content-Type"},
		OptionsResponseStatusCode: http.StatusOK,
		MaxAge:                    12 * time.Hour,
	}))

	r.GET("/healthz", readH.Health)
	if m != nil && cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	fn := r.Group("/functions/v1", middleware.OptionalAuth(cfg.Auth.JWTSecret))
	fn.POST("/weather-forecast", refreshH.Weather)
	fn.POST("/fetch-news", refreshH.News)
	fn.POST("/fetch-market-prices", refreshH.Market)
	fn.POST("/detect-disease", detectH.Detect)
	fn.POST("/farmer-chatbot", chatH.Chat)
	fn.POST("/farmer-chatbot/stream", chatH.ChatStream)

	api := r.Group("/api", middleware.OptionalAuth(cfg.Auth.JWTSecret))
	api.GET("/news", readH.News)
	api.GET("/market-prices", readH.MarketPrices)
	api.GET("/detections", middleware.RequireAuth(cfg.Auth.JWTSecret), readH.Detections)

	return r
}
