package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"shortr-be/internal/entities"
)

// URLRepository defines the interface for URL database operations
type URLRepository interface {
	Create(originalURL, shortCode string, userID *string, expiresAt *time.Time) (*entities.URL, error)
	FindResolvableByShortCode(shortCode string) (*entities.URL, error)
	FindActiveByShortCode(shortCode string) (*entities.URL, error)
	FindByShortCode(shortCode string) (*entities.URL, error)
	FindActiveByOriginalURL(originalURL string, userID *string) (*entities.URL, error)
	ListActiveByUserID(userID string) ([]*entities.URL, error)
	IncrementClickCount(shortCode string) error
	Deactivate(shortCode string) error
	CountURLsAndClicksByUserID(userID string) (urls int64, clicks int64, err error)
}

type urlRepository struct {
	db *sql.DB
}

// NewURLRepository creates a new URL repository
func NewURLRepository(db *sql.DB) URLRepository {
	return &urlRepository{db: db}
}

const urlColumns = "id, original_url, short_code, created_at, expires_at, click_count, user_id, is_active"

// Create inserts a new URL mapping. A duplicate short code surfaces as
// ErrShortCodeTaken so the service can retry with a fresh code.
func (r *urlRepository) Create(originalURL, shortCode string, userID *string, expiresAt *time.Time) (*entities.URL, error) {
	var expiresAtValue interface{}
	if expiresAt != nil {
		utcTime := expiresAt.UTC()
		expiresAtValue = utcTime
	}

	query := `
		INSERT INTO urls (original_url, short_code, user_id, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + urlColumns

	url, err := r.scanOne(r.db.QueryRow(query, originalURL, shortCode, userID, expiresAtValue))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrShortCodeTaken
		}
		return nil, fmt.Errorf("failed to create URL: %w", err)
	}

	return url, nil
}

// FindResolvableByShortCode finds a mapping eligible to serve a redirect:
// active and either without expiration or not yet expired.
func (r *urlRepository) FindResolvableByShortCode(shortCode string) (*entities.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE short_code = $1
		AND is_active = TRUE
		AND (expires_at IS NULL OR expires_at > NOW())
	`
	return r.findOne(query, shortCode)
}

// FindActiveByShortCode finds an active mapping regardless of expiration.
// Stats stay visible after expiry; only soft delete hides them.
func (r *urlRepository) FindActiveByShortCode(shortCode string) (*entities.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE short_code = $1 AND is_active = TRUE
	`
	return r.findOne(query, shortCode)
}

// FindByShortCode finds a mapping in any state, active or soft-deleted.
func (r *urlRepository) FindByShortCode(shortCode string) (*entities.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE short_code = $1
	`
	return r.findOne(query, shortCode)
}

// FindActiveByOriginalURL finds the active mapping for an (original URL,
// owner) pair. A nil userID matches anonymous rows.
func (r *urlRepository) FindActiveByOriginalURL(originalURL string, userID *string) (*entities.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE original_url = $1
		AND user_id IS NOT DISTINCT FROM $2
		AND is_active = TRUE
	`
	return r.findOne(query, originalURL, userID)
}

// ListActiveByUserID retrieves all active mappings for a user, newest first.
func (r *urlRepository) ListActiveByUserID(userID string) ([]*entities.URL, error) {
	query := `
		SELECT ` + urlColumns + `
		FROM urls
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list URLs: %w", err)
	}
	defer rows.Close()

	var urls []*entities.URL
	for rows.Next() {
		url, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan URL: %w", err)
		}
		urls = append(urls, url)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating URLs: %w", err)
	}

	return urls, nil
}

// IncrementClickCount bumps the counter for an active mapping by exactly one.
// The increment happens inside the UPDATE, so concurrent clicks never lose
// updates. A missing or inactive code is a silent no-op.
func (r *urlRepository) IncrementClickCount(shortCode string) error {
	_, err := r.db.Exec(`
		UPDATE urls
		SET click_count = click_count + 1
		WHERE short_code = $1 AND is_active = TRUE
	`, shortCode)
	if err != nil {
		return fmt.Errorf("failed to increment click count: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a mapping. The row is retained so the short code is
// never reused. An already-inactive or missing code returns ErrNotFound.
func (r *urlRepository) Deactivate(shortCode string) error {
	result, err := r.db.Exec(`
		UPDATE urls
		SET is_active = FALSE
		WHERE short_code = $1 AND is_active = TRUE
	`, shortCode)
	if err != nil {
		return fmt.Errorf("failed to deactivate URL: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// CountURLsAndClicksByUserID aggregates active mapping and click totals for a
// user's profile.
func (r *urlRepository) CountURLsAndClicksByUserID(userID string) (int64, int64, error) {
	var urls, clicks int64
	err := r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(click_count), 0)
		FROM urls
		WHERE user_id = $1 AND is_active = TRUE
	`, userID).Scan(&urls, &clicks)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate user URLs: %w", err)
	}
	return urls, clicks, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *urlRepository) scanOne(row rowScanner) (*entities.URL, error) {
	var url entities.URL
	err := row.Scan(
		&url.ID,
		&url.OriginalURL,
		&url.ShortCode,
		&url.CreatedAt,
		&url.ExpiresAt,
		&url.ClickCount,
		&url.UserID,
		&url.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &url, nil
}

func (r *urlRepository) findOne(query string, args ...interface{}) (*entities.URL, error) {
	url, err := r.scanOne(r.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find URL: %w", err)
	}
	return url, nil
}
