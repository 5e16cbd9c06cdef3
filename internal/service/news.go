package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/config"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/normalize"
)

const (
	sourceNews = "news"
	newsQuery  = `agriculture OR farming OR crops OR pest OR pesticide OR "global agriculture" OR "agricultural technology"`
)

type NewsService struct {
	cfg *config.Config
	up  *Upstream
	now func() time.Time
}

func NewNewsService(cfg *config.Config, up *Upstream) *NewsService {
	return &NewsService{cfg: cfg, up: up, now: time.Now}
}

// Fetch returns the latest agriculture articles, normalized and classified.
func (s *NewsService) Fetch(ctx context.Context) ([]model.NewsArticle, error) {
	key, err := s.cfg.Require(config.KeyNewsAPI)
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("q", newsQuery)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", strconv.Itoa(s.cfg.News.PageSize))

	header := http.Header{}
	header.Set("X-Api-Key", key)

	var raw normalize.NewsAPIResponse
	if err := s.up.getJSON(ctx, sourceNews, s.cfg.News.BaseURL+"/v2/everything?"+q.Encode(), header, &raw); err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	if raw.Status == "error" {
		return nil, &UpstreamError{Source: sourceNews, Status: http.StatusOK, Err: errors.New(raw.Code + ": " + raw.Message)}
	}
	return normalize.NewsArticles(raw.Articles, s.now()), nil
}
