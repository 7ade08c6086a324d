package loaders

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// ErrFetch indicates a page could not be retrieved.
var ErrFetch = errors.New("fetch failed")

// Ensure HTTPFetcher implements the interface.
var _ driven.PageFetcher = (*HTTPFetcher)(nil)

const (
	defaultFetchTimeout = 30 * time.Second

	// maxPageBytes caps how much of a response body is read.
	maxPageBytes = 10 << 20

	userAgent = "kbase/1.0 (+https://github.com/custodia-labs/kbase)"
)

// FetchConfig holds HTTP fetcher settings.
type FetchConfig struct {
	// Timeout bounds a single request.
	Timeout time.Duration
	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultFetchConfig is polite towards the sites being loaded.
var DefaultFetchConfig = FetchConfig{
	Timeout:           defaultFetchTimeout,
	RequestsPerSecond: 2.0,
	BurstSize:         4,
}

// HTTPFetcher retrieves web pages over HTTP with client-side rate limiting.
type HTTPFetcher struct {
	client  *http.Client
	limiter *rate.Limiter

	mu      sync.Mutex
	retryAt time.Time
}

// NewHTTPFetcher creates a fetcher with the given configuration.
func NewHTTPFetcher(cfg FetchConfig) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultFetchTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultFetchConfig.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = DefaultFetchConfig.BurstSize
	}

	return &HTTPFetcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Fetch returns the response body of a GET request to pageURL.
// Non-2xx responses are errors. A 429 response delays later requests
// by the server's Retry-After hint.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrFetch, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.backoff(resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}
	return body, nil
}

func (f *HTTPFetcher) wait(ctx context.Context) error {
	f.mu.Lock()
	retryAt := f.retryAt
	f.mu.Unlock()

	if time.Now().Before(retryAt) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Until(retryAt)):
		}
	}

	return f.limiter.Wait(ctx)
}

func (f *HTTPFetcher) backoff(retryAfter string) {
	seconds, err := strconv.Atoi(retryAfter)
	if err != nil || seconds <= 0 {
		seconds = 5
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.retryAt = time.Now().Add(time.Duration(seconds) * time.Second)
}
