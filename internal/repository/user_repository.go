package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"shortr-be/internal/entities"
)

// UserRepository defines the interface for user database operations
type UserRepository interface {
	Create(email, passwordHash string, firstName, lastName *string) (*entities.User, error)
	FindByEmail(email string) (*entities.User, error)
	FindByID(id string) (*entities.User, error)
	UpdateLastLogin(id string) error
}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = "id, email, password_hash, first_name, last_name, created_at, last_login_at, is_active"

// Create inserts a new user. A duplicate email surfaces as ErrEmailTaken.
func (r *userRepository) Create(email, passwordHash string, firstName, lastName *string) (*entities.User, error) {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	user, err := r.scanOne(r.db.QueryRow(query, email, passwordHash, firstName, lastName))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// FindByEmail finds a user by email
func (r *userRepository) FindByEmail(email string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.findOne(query, email)
}

// FindByID finds a user by ID (UUID)
func (r *userRepository) FindByID(id string) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.findOne(query, id)
}

// UpdateLastLogin stamps the user's last successful authentication time.
func (r *userRepository) UpdateLastLogin(id string) error {
	_, err := r.db.Exec(`UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

func (r *userRepository) scanOne(row rowScanner) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.CreatedAt,
		&user.LastLoginAt,
		&user.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) findOne(query string, args ...interface{}) (*entities.User, error) {
	user, err := r.scanOne(r.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
