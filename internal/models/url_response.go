package models

import "time"

// URLResponse represents the response after creating or resolving a short URL
type URLResponse struct {
	ID          int64      `json:"id"`
	OriginalURL string     `json:"originalUrl"`
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"` // Rendered from base URL + redirect prefix + code
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	ClickCount  int64      `json:"clickCount"`
	IsActive    bool       `json:"isActive"`
}

// URLStatsResponse represents the statistics view of a mapping. Unlike the
// redirect path it stays visible after expiry, with IsExpired distinguishing
// "expired" from "deleted".
type URLStatsResponse struct {
	ID          int64      `json:"id"`
	OriginalURL string     `json:"originalUrl"`
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	ClickCount  int64      `json:"clickCount"`
	IsActive    bool       `json:"isActive"`
	IsExpired   bool       `json:"isExpired"`
}
