package models

import "time"

// CreateURLRequest represents the request body for creating a short URL
type CreateURLRequest struct {
	OriginalURL string     `json:"originalUrl" binding:"required,max=2048"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"` // Optional expiration date
}
