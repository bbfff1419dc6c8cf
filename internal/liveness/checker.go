package liveness

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

const userAgent = "shortr/1.0"

// Checker validates URL syntax and probes targets for reachability.
type Checker struct {
	client *http.Client
}

// NewChecker creates a checker whose probes time out after the given duration.
func NewChecker(timeout time.Duration) *Checker {
	return &Checker{
		client: &http.Client{
			Timeout: timeout,
			// A 3xx answer already proves the target is alive; following it
			// would just spend the timeout budget on someone else's server.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Validate reports whether rawURL parses as an absolute http or https URL.
func Validate(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// CheckLiveness probes the target with a HEAD request, falling back to a GET
// that reads only response headers when HEAD is rejected. Any 2xx or 3xx
// status counts as reachable; everything else, including timeouts, DNS
// failures and refused connections, counts as unreachable. Never returns an
// error: the probe fails closed.
func (c *Checker) CheckLiveness(ctx context.Context, rawURL string) bool {
	if ok, done := c.probe(ctx, http.MethodHead, rawURL); done {
		return ok
	}
	// Some servers reject HEAD but serve GET fine, so a failed HEAD is
	// retried once with a full request before the URL is declared dead.
	ok, _ := c.probe(ctx, http.MethodGet, rawURL)
	return ok
}

// probe issues one request. done is false when the result warrants the
// HEAD-to-GET fallback.
func (c *Checker) probe(ctx context.Context, method, rawURL string) (ok, done bool) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return false, true
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, false
	}
	resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return true, true
	}
	return false, false
}
