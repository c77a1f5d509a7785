package models

import "time"

// AIModel describes one of the service's signal-generation models.
type AIModel struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ModelType   string         `json:"model_type"`
	Enabled     bool           `json:"enabled"`
	Config      map[string]any `json:"config,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewsSentiment is a scored news item for an asset.
type NewsSentiment struct {
	ID             string    `json:"id"`
	AssetID        string    `json:"asset_id"`
	Title          string    `json:"title"`
	Source         string    `json:"source"`
	URL            string    `json:"url"`
	SentimentScore float64   `json:"sentiment_score"` // -1..1
	Importance     float64   `json:"importance"`      // 0..1
	PublishedAt    time.Time `json:"published_at"`
	AnalyzedAt     time.Time `json:"analyzed_at"`
}
