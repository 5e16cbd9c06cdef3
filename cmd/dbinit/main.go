package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/config"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/logger"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/service"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/store"
)

func main() {
	configFile := flag.String("config", "etc/config-dev.yaml", "config file")
	warm := flag.Bool("warm", false, "run one news and market refresh after migrating")
	flag.Parse()

	cfg := config.Load(*configFile)
	logger.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		log.Fatal("db connect failed: ", err)
	}
	st := store.New(db, cfg.Storage.NewsLimit, cfg.Storage.PriceLimit)
	ctx := context.Background()

	// Step 1: tables
	if err := st.Migrate(ctx); err != nil {
		log.Fatal("migrate failed: ", err)
	}
	logger.Info("dbinit: tables ready", "driver", cfg.Storage.Driver)

	// Step 2: first batch, so the dashboard is not empty before anyone refreshes
	if *warm {
		up := service.NewUpstream(time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second, nil)
		warmUp(ctx, st, service.NewNewsService(cfg, up), service.NewMarketService(cfg, up))
	}

	logger.Info("=== all done ===")
}
