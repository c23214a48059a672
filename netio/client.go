package netio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/packsmith/packsmith/core"
)

const UserAgent = "packsmith/packsmith"

// DefaultCacheTTL is how long a cached platform response stays fresh.
const DefaultCacheTTL = 300 * time.Second

// maxRateLimitRetries bounds how often a single logical request is retried
// after HTTP 429 before giving up.
const maxRateLimitRetries = 5

// Client is the single road to a platform's API: every request passes
// per-platform pacing, then the shared response cache, then the network.
// Safe for concurrent use.
type Client struct {
	// Backoff is the 429 retry schedule. Exported so tests can shrink it.
	Backoff BackoffConfig

	platform core.Platform
	http     *http.Client
	limiter  *rate.Limiter
	cache    *ResponseCache
	apiKey   string
	ttl      time.Duration
	logger   *log.Logger
}

// NewClient builds a client for one platform. The API key may be empty for
// platforms that do not require one; config.APIKey enforces presence before
// construction.
func NewClient(platform core.Platform, apiKey string, cache *ResponseCache, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}
	attrs := platform.Attributes()
	return &Client{
		Backoff:  DefaultBackoff(),
		platform: platform,
		http:     &http.Client{Timeout: attrs.Timeout},
		limiter:  rate.NewLimiter(rate.Limit(float64(attrs.RequestsPerMinute)/60.0), attrs.Burst),
		cache:    cache,
		apiKey:   apiKey,
		ttl:      DefaultCacheTTL,
		logger:   logger,
	}
}

// Platform returns which platform this client talks to.
func (c *Client) Platform() core.Platform {
	return c.platform
}

// Get fetches a URL through the cache protocol: a fresh entry is returned
// without touching the network; a stale entry with an ETag is revalidated
// conditionally, extending its TTL on 304; anything else goes to the network
// and is cached when the response is 2xx.
func (c *Client) Get(ctx context.Context, url string) (CachedResponse, error) {
	if entry, ok := c.cache.Get(url); ok {
		if entry.Fresh(time.Now()) {
			return entry, nil
		}
		if entry.ETag != "" {
			return c.revalidate(ctx, url, entry)
		}
	}

	resp, err := c.fetch(ctx, url, "")
	if err != nil {
		return CachedResponse{}, err
	}
	if resp.Status >= 200 && resp.Status < 300 {
		c.cache.Put(url, resp)
	}
	return resp, nil
}

func (c *Client) revalidate(ctx context.Context, url string, stale CachedResponse) (CachedResponse, error) {
	resp, err := c.fetch(ctx, url, stale.ETag)
	if err != nil {
		return CachedResponse{}, err
	}
	if resp.Status == http.StatusNotModified {
		stale.Expires = time.Now().Add(c.ttl)
		c.cache.Touch(url, stale.Expires)
		return stale, nil
	}
	if resp.Status >= 200 && resp.Status < 300 {
		c.cache.Put(url, resp)
	}
	return resp, nil
}

// fetch performs the network round trip with rate pacing and 429 backoff.
// The backoff state is a local value, so one rate-limited call chain never
// slows down an unrelated request on the same client.
func (c *Client) fetch(ctx context.Context, url, etag string) (CachedResponse, error) {
	attempts := 0
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return CachedResponse{}, fmt.Errorf("%s: %w", c.platform.FriendlyName(), err)
		}

		resp, err := c.do(ctx, url, etag)
		if err != nil {
			return CachedResponse{}, fmt.Errorf("%s: request %s: %w", c.platform.FriendlyName(), url, err)
		}
		if resp.Status != http.StatusTooManyRequests {
			return resp, nil
		}

		attempts++
		if attempts > maxRateLimitRetries {
			return CachedResponse{}, &core.RateLimitError{Platform: c.platform, Attempts: attempts}
		}

		wait := c.Backoff.Delay(attempts)
		c.logger.Debug("rate limited, backing off", "platform", c.platform, "attempt", attempts, "wait", wait)
		select {
		case <-ctx.Done():
			return CachedResponse{}, ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (c *Client) do(ctx context.Context, url, etag string) (CachedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return CachedResponse{}, err
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return CachedResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return CachedResponse{}, err
	}

	return CachedResponse{
		Data:    body,
		ETag:    resp.Header.Get("ETag"),
		Expires: time.Now().Add(c.ttl),
		Status:  resp.StatusCode,
	}, nil
}
