package models

import "time"

// AuthResponse represents the response after successful registration or login
type AuthResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ProfileResponse represents the authenticated user's profile
type ProfileResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	TotalURLs   int64      `json:"totalUrls"`
	TotalClicks int64      `json:"totalClicks"`
}

// AuthCheckResponse answers the lightweight token check endpoint
type AuthCheckResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	UserID          string `json:"userId"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
}
