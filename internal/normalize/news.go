package normalize

import (
	"regexp"
	"strings"
	"time"

	"github.com/soyamkaran351-cloud/Farmer-support-system/internal/model"
)

const (
	CategoryPest       = "Pest Management"
	CategoryGlobal     = "Global Agriculture"
	CategoryTechnology = "Technology"
	CategoryCrops      = "Crops"
	CategoryGeneral    = "General"
)

const maxContentRunes = 500

// Keywords match anywhere in the lowercased text, so "biopesticide" and
// "agritech" count. "ai" alone must be a whole word to keep "rain" and
// "grain" out of Technology.
var categoryRules = []struct {
	category string
	keywords []string
	word     *regexp.Regexp
}{
	{category: CategoryPest, keywords: []string{"pest", "pesticide", "insect"}},
	{category: CategoryGlobal, keywords: []string{"global", "international", "world", "export"}},
	{category: CategoryTechnology, keywords: []string{"technology", "innovation", "tech"}, word: regexp.MustCompile(`\bai\b`)},
	{category: CategoryCrops, keywords: []string{"crop", "harvest"}},
}

// NewsAPIResponse is the /v2/everything payload.
type NewsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []NewsAPIArticle `json:"articles"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
}

type NewsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// Classify returns the first category, in priority order, whose keywords
// appear in the title or description.
func Classify(title, description string) string {
	text := strings.ToLower(title + " " + description)
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.category
			}
		}
		if r.word != nil && r.word.MatchString(text) {
			return r.category
		}
	}
	return CategoryGeneral
}

// NewsArticles maps upstream articles in order. Articles without a title, or
// the "[Removed]" placeholders NewsAPI returns for withdrawn items, are dropped.
func NewsArticles(raw []NewsAPIArticle, now time.Time) []model.NewsArticle {
	out := make([]model.NewsArticle, 0, len(raw))
	for _, a := range raw {
		title := strings.TrimSpace(a.Title)
		if title == "" || title == "[Removed]" {
			continue
		}
		published, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			published = now
		}
		var image *string
		if a.URLToImage != "" {
			img := a.URLToImage
			image = &img
		}
		out = append(out, model.NewsArticle{
			Title:       title,
			Content:     articleContent(a),
			Category:    Classify(a.Title, a.Description),
			ImageURL:    image,
			PublishedAt: published.UTC(),
		})
	}
	return out
}

func articleContent(a NewsAPIArticle) string {
	if a.Description != "" {
		return a.Description
	}
	r := []rune(a.Content)
	if len(r) > maxContentRunes {
		r = r[:maxContentRunes]
	}
	return string(r)
}
