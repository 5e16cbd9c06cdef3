package main

import (
	"context"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/logger"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/service"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/store"
)

// warmUp loads one batch of each refreshable kind. Failures are logged and
// skipped; the server refreshes on demand anyway.
func warmUp(ctx context.Context, st *store.Store, news *service.NewsService, market *service.MarketService) {
	if articles, err := news.Fetch(ctx); err != nil {
		logger.Warn("dbinit: news skipped", "err", err)
	} else if n, err := st.ReplaceNews(ctx, articles); err != nil {
		logger.Error("dbinit: news store failed", "err", err)
	} else {
		logger.Info("dbinit: news loaded", "fetched", len(articles), "stored", n)
	}

	if prices, err := market.Fetch(ctx); err != nil {
		logger.Warn("dbinit: market skipped", "err", err)
	} else if n, err := st.ReplaceMarketPrices(ctx, prices); err != nil {
		logger.Error("dbinit: market store failed", "err", err)
	} else {
		logger.Info("dbinit: market loaded", "fetched", len(prices), "stored", n)
	}
}
