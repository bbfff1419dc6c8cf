package entities

import "time"

// User represents a user entity in the database
type User struct {
	ID           string     `json:"id"` // UUID
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Don't expose password hash in JSON
	FirstName    *string    `json:"firstName,omitempty"`
	LastName     *string    `json:"lastName,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	IsActive     bool       `json:"isActive"`
}
