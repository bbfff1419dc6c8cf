package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"shortr-be/internal/cache"
	"shortr-be/internal/entities"
	"shortr-be/internal/liveness"
	"shortr-be/internal/models"
	"shortr-be/internal/repository"
)

// RedirectPrefix is the path segment under which short links are served.
const RedirectPrefix = "/r/"

// LivenessChecker probes a URL for reachability.
type LivenessChecker interface {
	CheckLiveness(ctx context.Context, rawURL string) bool
}

// CodeGenerator produces candidate short codes.
type CodeGenerator interface {
	Generate() string
}

// URLService defines the interface for URL business logic
type URLService interface {
	CreateShortURL(ctx context.Context, req *models.CreateURLRequest, userID *string) (*models.URLResponse, error)
	GetByShortCode(ctx context.Context, shortCode string) (*entities.URL, error)
	GetURLStats(shortCode string) (*models.URLStatsResponse, error)
	GetUserURLs(userID *string) ([]*models.URLStatsResponse, error)
	DeleteURL(ctx context.Context, shortCode string, userID *string) error
	IncrementClicks(shortCode string) error
	ShortURL(shortCode string) string
}

type urlService struct {
	repo      repository.URLRepository
	checker   LivenessChecker
	generator CodeGenerator
	cache     cache.Cache // nil disables caching
	baseURL   string
}

// NewURLService creates a new URL service. cacheClient may be nil, in which
// case every lookup goes straight to the store.
func NewURLService(repo repository.URLRepository, checker LivenessChecker, generator CodeGenerator, cacheClient cache.Cache, baseURL string) URLService {
	return &urlService{
		repo:      repo,
		checker:   checker,
		generator: generator,
		cache:     cacheClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}
}

// CreateShortURL validates and probes the URL, then either returns the
// caller's existing active mapping for it or persists a new one under a fresh
// unique code.
func (s *urlService) CreateShortURL(ctx context.Context, req *models.CreateURLRequest, userID *string) (*models.URLResponse, error) {
	if !liveness.Validate(req.OriginalURL) {
		return nil, ErrInvalidURL
	}
	if !s.checker.CheckLiveness(ctx, req.OriginalURL) {
		return nil, ErrUnreachableURL
	}

	// Resubmission of the same URL by the same owner is idempotent.
	existing, err := s.repo.FindActiveByOriginalURL(req.OriginalURL, userID)
	if err == nil {
		return s.toURLResponse(existing), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up existing URL: %w", err)
	}

	created, err := s.insertWithFreshCode(ctx, req, userID)
	if err != nil {
		return nil, err
	}

	return s.toURLResponse(created), nil
}

// insertWithFreshCode picks an unused code and inserts the row. Two requests
// can still draw the same code between the existence check and the insert;
// the short_code unique constraint turns that race into ErrShortCodeTaken,
// which is retried once with a new code.
func (s *urlService) insertWithFreshCode(ctx context.Context, req *models.CreateURLRequest, userID *string) (*entities.URL, error) {
	var created *entities.URL

	backoff := retry.WithMaxRetries(1, retry.NewConstant(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		code, err := s.unusedCode()
		if err != nil {
			return err
		}

		url, err := s.repo.Create(req.OriginalURL, code, userID, req.ExpiresAt)
		if errors.Is(err, repository.ErrShortCodeTaken) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}

		created = url
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create URL: %w", err)
	}

	return created, nil
}

// unusedCode generates codes until one is absent from the store. The
// namespace is sparse, so the expected iteration count is one; there is no
// upper bound on attempts.
func (s *urlService) unusedCode() (string, error) {
	for {
		code := s.generator.Generate()
		_, err := s.repo.FindByShortCode(code)
		if errors.Is(err, repository.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check short code: %w", err)
		}
		// Code taken, draw again.
	}
}

// GetByShortCode returns the mapping only while it is resolvable: active and
// not expired. Used by the redirect path.
func (s *urlService) GetByShortCode(ctx context.Context, shortCode string) (*entities.URL, error) {
	if url, ok := s.cachedURL(ctx, shortCode); ok {
		return url, nil
	}

	url, err := s.repo.FindResolvableByShortCode(shortCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	s.cacheURL(ctx, url)
	return url, nil
}

// GetURLStats returns the statistics view of an active mapping. Expired
// mappings stay visible here with IsExpired set.
func (s *urlService) GetURLStats(shortCode string) (*models.URLStatsResponse, error) {
	url, err := s.repo.FindActiveByShortCode(shortCode)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.toStatsResponse(url), nil
}

// GetUserURLs lists the owner's active mappings, newest first. Anonymous
// callers get an empty list; anonymously owned mappings are never listed back
// to anyone.
func (s *urlService) GetUserURLs(userID *string) ([]*models.URLStatsResponse, error) {
	if userID == nil || *userID == "" {
		return []*models.URLStatsResponse{}, nil
	}

	urls, err := s.repo.ListActiveByUserID(*userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*models.URLStatsResponse, len(urls))
	for i, url := range urls {
		responses[i] = s.toStatsResponse(url)
	}
	return responses, nil
}

// DeleteURL soft-deletes a mapping. Owned mappings may only be deleted by
// their owner; anonymously owned ones by anyone. An ownership mismatch is
// reported as ErrNotFound so existence is not leaked.
func (s *urlService) DeleteURL(ctx context.Context, shortCode string, userID *string) error {
	url, err := s.repo.FindByShortCode(shortCode)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !url.IsActive {
		return ErrNotFound
	}

	if url.UserID != nil && (userID == nil || *userID != *url.UserID) {
		log.Printf("delete of %s denied: ownership mismatch", shortCode)
		return ErrNotFound
	}

	if err := s.repo.Deactivate(shortCode); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	s.invalidateURL(ctx, shortCode)
	return nil
}

// IncrementClicks bumps the click counter for an active mapping. Inactive or
// unknown codes are a silent no-op.
func (s *urlService) IncrementClicks(shortCode string) error {
	return s.repo.IncrementClickCount(shortCode)
}

// ShortURL renders the externally visible short link for a code. Pure
// function of configuration and the code; never stored.
func (s *urlService) ShortURL(shortCode string) string {
	return s.baseURL + RedirectPrefix + shortCode
}

func (s *urlService) toURLResponse(url *entities.URL) *models.URLResponse {
	return &models.URLResponse{
		ID:          url.ID,
		OriginalURL: url.OriginalURL,
		ShortCode:   url.ShortCode,
		ShortURL:    s.ShortURL(url.ShortCode),
		CreatedAt:   url.CreatedAt,
		ExpiresAt:   url.ExpiresAt,
		ClickCount:  url.ClickCount,
		IsActive:    url.IsActive,
	}
}

func (s *urlService) toStatsResponse(url *entities.URL) *models.URLStatsResponse {
	return &models.URLStatsResponse{
		ID:          url.ID,
		OriginalURL: url.OriginalURL,
		ShortCode:   url.ShortCode,
		ShortURL:    s.ShortURL(url.ShortCode),
		CreatedAt:   url.CreatedAt,
		ExpiresAt:   url.ExpiresAt,
		ClickCount:  url.ClickCount,
		IsActive:    url.IsActive,
		IsExpired:   url.IsExpired(time.Now()),
	}
}

// Cache helpers. All best-effort: a cache failure never fails the request.

func urlCacheKey(shortCode string) string {
	return "url:" + shortCode
}

func (s *urlService) cachedURL(ctx context.Context, shortCode string) (*entities.URL, bool) {
	if s.cache == nil {
		return nil, false
	}

	var url entities.URL
	if err := s.cache.GetJSON(ctx, urlCacheKey(shortCode), &url); err != nil {
		return nil, false
	}
	// Only resolvable rows are cached, but expiry can pass while cached.
	if !url.IsResolvable(time.Now()) {
		s.invalidateURL(ctx, shortCode)
		return nil, false
	}
	return &url, true
}

func (s *urlService) cacheURL(ctx context.Context, url *entities.URL) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, urlCacheKey(url.ShortCode), url, time.Hour); err != nil {
		log.Printf("Warning: failed to cache %s: %v", url.ShortCode, err)
	}
}

func (s *urlService) invalidateURL(ctx context.Context, shortCode string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, urlCacheKey(shortCode)); err != nil {
		log.Printf("Warning: failed to invalidate cache for %s: %v", shortCode, err)
	}
}
