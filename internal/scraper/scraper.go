package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/relscope/relscope/internal/domain"
)

// Scraper fetches incident history for one status page
type Scraper interface {
	FetchIncidents(ctx context.Context, tf domain.Timeframe) ([]domain.Incident, error)
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher retrieves page content over HTTP with bounded retries
type Fetcher struct {
	client     *http.Client
	clock      clock.Clock
	logger     *zap.Logger
	maxRetries int
	retryDelay time.Duration
	userAgent  string
}

// FetcherOption customizes a Fetcher
type FetcherOption func(*Fetcher)

// WithClock injects a clock (tests use a mock to skip retry delays)
func WithClock(c clock.Clock) FetcherOption {
	return func(f *Fetcher) { f.clock = c }
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithRetries sets the attempt budget and base delay
func WithRetries(attempts int, delay time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.maxRetries = attempts
		f.retryDelay = delay
	}
}

// NewFetcher creates a page fetcher
func NewFetcher(logger *zap.Logger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:     &http.Client{Timeout: 30 * time.Second},
		clock:      clock.New(),
		logger:     logger,
		maxRetries: 3,
		retryDelay: time.Second,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage retrieves url, retrying with a linearly increasing delay.
// The last error is returned once the attempt budget is exhausted.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		f.logger.Debug("fetching page",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", f.maxRetries))

		content, err := f.fetchOnce(ctx, url)
		if err == nil {
			if content == "" {
				f.logger.Warn("received empty content", zap.String("url", url))
			} else {
				f.logger.Debug("fetched page", zap.String("url", url), zap.Int("bytes", len(content)))
			}
			return content, nil
		}

		lastErr = err
		f.logger.Error("page fetch failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == f.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-f.clock.After(f.retryDelay * time.Duration(attempt)):
		}
	}

	return "", fmt.Errorf("fetching %s after %d attempts: %w", url, f.maxRetries, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}
