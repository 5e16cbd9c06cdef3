package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/config"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/handler"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/logger"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/metrics"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/store"
)

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	migrate := flag.Bool("migrate", false, "auto-migrate tables before serving")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)
	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	st := store.New(db, cfg.Storage.NewsLimit, cfg.Storage.PriceLimit)
	if *migrate {
		if err := st.Migrate(context.Background()); err != nil {
			slog.Error("migrate failed", "err", err)
			os.Exit(1)
		}
	}

	for _, key := range []string{config.KeyAIGateway, config.KeyWeatherAPI, config.KeyNewsAPI, config.KeyMarketAPI} {
		if _, err := cfg.Require(key); err != nil {
			slog.Warn("credential not configured", "key", key)
		}
	}

	var rec *metrics.Recorder
	if cfg.Metrics.Enabled {
		rec = metrics.New()
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewRouter(cfg, st, rec),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
	slog.Info("server stopped")
}
