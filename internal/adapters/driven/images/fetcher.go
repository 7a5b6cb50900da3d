package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRate is the default request rate per second.
	DefaultRate = 10

	// MaxImageSize caps a single download.
	MaxImageSize = 20 << 20
)

// Ensure Fetcher implements the interface.
var _ driven.ImageFetcher = (*Fetcher)(nil)

// Fetcher downloads images over HTTP.
type Fetcher struct {
	http    *http.Client
	limiter *rate.Limiter
}

// NewFetcher creates a fetcher allowing perSecond requests per second.
// A nil client uses a default client with DefaultTimeout.
func NewFetcher(client *http.Client, perSecond float64) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	if perSecond <= 0 {
		perSecond = DefaultRate
	}
	return &Fetcher{
		http:    client,
		limiter: rate.NewLimiter(rate.Limit(perSecond), int(perSecond)+1),
	}
}

// Fetch downloads the image at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("fetching %s: %w", url, domain.ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: status %d: %w", url, resp.StatusCode, domain.ErrImageUnavailable)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("fetching %s: image exceeds %d bytes", url, MaxImageSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetching %s: empty body: %w", url, domain.ErrImageUnavailable)
	}
	return data, nil
}
