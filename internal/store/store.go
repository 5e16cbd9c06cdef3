// Package store is the shared storage accessor: replace-all batches for news
// and market prices, detection history, and the read queries behind the UI.
package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
)

// SentinelID is never assigned to a row; deleting "id <> SentinelID" clears a
// table through APIs that refuse an unconditional delete.
const SentinelID = "00000000-0000-0000-0000-000000000000"

const (
	insertBatch       = 100
	DefaultListLimit  = 20
	MaxListLimit      = 100
	DefaultPriceLimit = 200
)

type Store struct {
	db         *gorm.DB
	newsLimit  int
	priceLimit int
}

// New wraps db. newsLimit and priceLimit cap how many rows one refresh keeps;
// zero keeps everything.
func New(db *gorm.DB, newsLimit, priceLimit int) *Store {
	return &Store{db: db, newsLimit: newsLimit, priceLimit: priceLimit}
}

func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(
		&model.NewsArticle{},
		&model.MarketPrice{},
		&model.DiseaseDetection{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("db handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// ReplaceNews swaps the whole farmer_news table for articles and reports how
// many rows were written.
func (s *Store) ReplaceNews(ctx context.Context, articles []model.NewsArticle) (int, error) {
	return replaceAll(ctx, s.db, articles, s.newsLimit)
}

// ReplaceMarketPrices swaps the whole market_prices table for rows.
func (s *Store) ReplaceMarketPrices(ctx context.Context, rows []model.MarketPrice) (int, error) {
	return replaceAll(ctx, s.db, rows, s.priceLimit)
}

// replaceAll deletes every row of T's table and inserts the first limit rows
// in one transaction. On any error the previous contents stay in place.
func replaceAll[T any](ctx context.Context, db *gorm.DB, rows []T, limit int) (int, error) {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	batch := append([]T(nil), rows...)

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var zero T
		if err := tx.Where("id <> ?", SentinelID).Delete(&zero).Error; err != nil {
			return fmt.Errorf("delete previous batch: %w", err)
		}
		if len(batch) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&batch, insertBatch).Error; err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}

func (s *Store) SaveDetection(ctx context.Context, d *model.DiseaseDetection) error {
	if err := s.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("insert detection: %w", err)
	}
	return nil
}

// ListNews returns the stored batch, newest publication first.
func (s *Store) ListNews(ctx context.Context, limit int) ([]model.NewsArticle, error) {
	var out []model.NewsArticle
	err := s.db.WithContext(ctx).
		Order("published_at DESC").
		Limit(clampLimit(limit, DefaultListLimit)).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query news: %w", err)
	}
	return out, nil
}

// ListMarketPrices returns stored prices, newest first. Query matches crop,
// market or state case-insensitively; rows from State sort ahead of the rest.
func (s *Store) ListMarketPrices(ctx context.Context, f model.PriceFilter) ([]model.MarketPrice, error) {
	q := s.db.WithContext(ctx).Model(&model.MarketPrice{})

	if term := strings.ToLower(strings.TrimSpace(f.Query)); term != "" {
		like := "%" + escapeLike(term) + "%"
		q = q.Where("LOWER(crop_name) LIKE ? ESCAPE '!' OR LOWER(market_name) LIKE ? ESCAPE '!' OR LOWER(state) LIKE ? ESCAPE '!'", like, like, like)
	}
	if state := strings.ToLower(strings.TrimSpace(f.State)); state != "" {
		q = q.Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN LOWER(state) = ? THEN 0 ELSE 1 END, created_at DESC",
			Vars:               []any{state},
			WithoutParentheses: true,
		}})
	} else {
		q = q.Order("created_at DESC")
	}

	var out []model.MarketPrice
	if err := q.Limit(DefaultPriceLimit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query market prices: %w", err)
	}
	return out, nil
}

// ListDetections returns a user's detection history, newest first.
func (s *Store) ListDetections(ctx context.Context, userID string, limit int) ([]model.DiseaseDetection, error) {
	var out []model.DiseaseDetection
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(clampLimit(limit, DefaultListLimit)).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query detections: %w", err)
	}
	return out, nil
}

func clampLimit(n, def int) int {
	switch {
	case n <= 0:
		return def
	case n > MaxListLimit:
		return MaxListLimit
	}
	return n
}

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
