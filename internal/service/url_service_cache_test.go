package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shortr-be/internal/cache"
	"shortr-be/internal/repository"
	"shortr-be/internal/repository/mocks"
	"shortr-be/internal/service"
)

// fakeCache is an in-memory cache.Cache for tests.
type fakeCache struct {
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = b
	return nil
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	b, ok := f.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func TestGetByShortCode_SecondLookupServedFromCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockURLRepository(ctrl)
	fc := newFakeCache()
	svc := service.NewURLService(repo, stubChecker{}, &seqGenerator{codes: []string{"x"}}, fc, baseURL)

	repo.EXPECT().FindResolvableByShortCode("abc123").Return(activeURL("abc123", nil), nil).Times(1)

	url, err := svc.GetByShortCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url.OriginalURL)

	// Store is not consulted again.
	url, err = svc.GetByShortCode(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", url.OriginalURL)
}

func TestGetByShortCode_ExpiredCacheEntryFallsThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockURLRepository(ctrl)
	fc := newFakeCache()
	svc := service.NewURLService(repo, stubChecker{}, &seqGenerator{codes: []string{"x"}}, fc, baseURL)

	past := time.Now().Add(-time.Minute)
	stale := activeURL("old123", nil)
	stale.ExpiresAt = &past
	require.NoError(t, fc.SetJSON(context.Background(), "url:old123", stale, time.Hour))

	repo.EXPECT().FindResolvableByShortCode("old123").Return(nil, repository.ErrNotFound)

	_, err := svc.GetByShortCode(context.Background(), "old123")
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.NotContains(t, fc.data, "url:old123")
}

func TestDeleteURL_InvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockURLRepository(ctrl)
	fc := newFakeCache()
	svc := service.NewURLService(repo, stubChecker{}, &seqGenerator{codes: []string{"x"}}, fc, baseURL)

	require.NoError(t, fc.SetJSON(context.Background(), "url:abc123", activeURL("abc123", nil), time.Hour))

	repo.EXPECT().FindByShortCode("abc123").Return(activeURL("abc123", nil), nil)
	repo.EXPECT().Deactivate("abc123").Return(nil)

	require.NoError(t, svc.DeleteURL(context.Background(), "abc123", nil))
	assert.NotContains(t, fc.data, "url:abc123")
}
