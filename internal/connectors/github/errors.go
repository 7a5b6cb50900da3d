package github

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gachadex/catalogsync/internal/core/domain"
)

var (
	// ErrNoToken is returned when an upload is attempted without a token.
	ErrNoToken = errors.New("github: no access token configured")

	// ErrNotAFile is returned when the target path is a directory.
	ErrNotAFile = errors.New("github: path is a directory")
)

// RateLimitError reports an exhausted quota. It matches domain.ErrRateLimited.
type RateLimitError struct {
	Quota Quota
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.Quota.Reset.Format(time.RFC3339))
}

func (e *RateLimitError) Unwrap() error { return domain.ErrRateLimited }

// APIError is a non-2xx contents API response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("github: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("github: %d %s (%s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound reports a 404.
func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

// IsRateLimited reports an exhausted quota.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}

// IsUnauthorized reports a rejected token.
func IsUnauthorized(err error) bool {
	s := statusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// IsConflict reports that the file appeared between the existence check and
// the create call.
func IsConflict(err error) bool {
	s := statusOf(err)
	return s == http.StatusConflict || s == http.StatusUnprocessableEntity
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
