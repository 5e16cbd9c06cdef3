package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsArticle struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"type:text" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	Category    string    `gorm:"size:32;index" json:"category"`
	ImageURL    *string   `gorm:"type:text" json:"image_url"`
	PublishedAt time.Time `gorm:"index" json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

type MarketPrice struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	CropName        string    `gorm:"size:128;index" json:"crop_name"`
	MarketName      string    `gorm:"size:128" json:"market_name"`
	State           string    `gorm:"size:64;index" json:"state"`
	PricePerQuintal float64   `json:"price_per_quintal"`
	Date            string    `gorm:"size:10" json:"date"` // yyyy-mm-dd
	CreatedAt       time.Time `json:"created_at"`
}

// DiseaseDetection is one detection-history row for an identified user.
type DiseaseDetection struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	UserID          string    `gorm:"size:64;index" json:"user_id"`
	ImageURL        string    `gorm:"type:text" json:"image_url"`
	DiseaseName     string    `gorm:"size:255" json:"disease_name"`
	Confidence      int       `json:"confidence"`
	Treatment       string    `gorm:"type:text" json:"treatment"`
	Recommendations string    `gorm:"type:text" json:"recommendations"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

func (NewsArticle) TableName() string      { return "farmer_news" }
func (MarketPrice) TableName() string      { return "market_prices" }
func (DiseaseDetection) TableName() string { return "disease_detections" }

func (a *NewsArticle) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (p *MarketPrice) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (d *DiseaseDetection) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
