package entities

import "time"

// URL represents a shortened URL row in the database
type URL struct {
	ID          int64      `json:"id"`
	OriginalURL string     `json:"originalUrl"`
	ShortCode   string     `json:"shortCode"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"` // Pointer allows nil (no expiration)
	ClickCount  int64      `json:"clickCount"`
	UserID      *string    `json:"userId,omitempty"` // Pointer allows nil (anonymous URLs), UUID
	IsActive    bool       `json:"isActive"`         // Soft-delete marker; rows are never removed
}

// IsExpired reports whether the mapping has an expiration in the past.
func (u *URL) IsExpired(now time.Time) bool {
	return u.ExpiresAt != nil && u.ExpiresAt.Before(now)
}

// IsResolvable reports whether the mapping may serve a redirect.
func (u *URL) IsResolvable(now time.Time) bool {
	return u.IsActive && !u.IsExpired(now)
}
