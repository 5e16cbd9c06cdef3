package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/config"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/normalize"
)

const sourceMarket = "market"

type MarketService struct {
	cfg *config.Config
	up  *Upstream
	now func() time.Time
}

func NewMarketService(cfg *config.Config, up *Upstream) *MarketService {
	return &MarketService{cfg: cfg, up: up, now: time.Now}
}

// Fetch returns every mandi price record of the configured resource, dated
// today.
func (s *MarketService) Fetch(ctx context.Context) ([]model.MarketPrice, error) {
	key, err := s.cfg.Require(config.KeyMarketAPI)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("api-key", key)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(s.cfg.Market.Limit))

	endpoint := fmt.Sprintf("%s/resource/%s?%s", s.cfg.Market.BaseURL, s.cfg.Market.ResourceID, q.Encode())
	var raw normalize.MarketResponse
	if err := s.up.getJSON(ctx, sourceMarket, endpoint, nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch market prices: %w", err)
	}
	return normalize.MarketPrices(raw.Records, s.now()), nil
}
