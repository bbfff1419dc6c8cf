package liveness

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"https", "https://example.com", true},
		{"http with path", "http://example.com/a/b?c=d", true},
		{"ftp scheme", "ftp://example.com", false},
		{"no scheme", "example.com", false},
		{"relative", "/just/a/path", false},
		{"scheme only", "https://", false},
		{"empty", "", false},
		{"garbage", "ht!tp://%%%", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.url))
		})
	}
}

func TestCheckLiveness_HeadOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewChecker(2 * time.Second)
	assert.True(t, c.CheckLiveness(context.Background(), srv.URL))
}

func TestCheckLiveness_RedirectCountsAsReachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://elsewhere.example", http.StatusMovedPermanently)
	}))
	defer srv.Close()

	c := NewChecker(2 * time.Second)
	assert.True(t, c.CheckLiveness(context.Background(), srv.URL))
}

func TestCheckLiveness_HeadRejectedGetAccepted(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewChecker(2 * time.Second)
	assert.True(t, c.CheckLiveness(context.Background(), srv.URL))
	assert.Equal(t, []string{http.MethodHead, http.MethodGet}, methods)
}

func TestCheckLiveness_NotFoundIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := NewChecker(2 * time.Second)
	assert.False(t, c.CheckLiveness(context.Background(), srv.URL))
}

func TestCheckLiveness_ServerErrorIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewChecker(2 * time.Second)
	assert.False(t, c.CheckLiveness(context.Background(), srv.URL))
}

func TestCheckLiveness_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening any more

	c := NewChecker(2 * time.Second)
	assert.False(t, c.CheckLiveness(context.Background(), srv.URL))
}

func TestCheckLiveness_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewChecker(50 * time.Millisecond)
	assert.False(t, c.CheckLiveness(context.Background(), srv.URL))
}

func TestCheckLiveness_SendsUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
	}))
	defer srv.Close()

	c := NewChecker(2 * time.Second)
	c.CheckLiveness(context.Background(), srv.URL)
}
