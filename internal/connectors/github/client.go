package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client wraps the go-github client with rate limiting.
type Client struct {
	gh            *gh.Client
	rateLimiter   *RateLimiter
	authenticated bool
}

// NewClientWithToken creates a GitHub client with a static access token.
// An empty token yields an unauthenticated client that cannot upload.
func NewClientWithToken(ctx context.Context, token string) *Client {
	if token == "" {
		return &Client{
			gh:          gh.NewClient(&http.Client{Timeout: DefaultTimeout}),
			rateLimiter: NewRateLimiter(),
		}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		gh:            gh.NewClient(tc),
		rateLimiter:   NewRateLimiter(),
		authenticated: true,
	}
}

// NewClientWithHTTPClient creates a GitHub client with a custom http.Client
// and rate limiter. The client is assumed to carry credentials.
func NewClientWithHTTPClient(httpClient *http.Client, limiter *RateLimiter) *Client {
	if limiter == nil {
		limiter = NewRateLimiter()
	}
	return &Client{
		gh:            gh.NewClient(httpClient),
		rateLimiter:   limiter,
		authenticated: true,
	}
}

// GitHub returns the underlying go-github client.
func (c *Client) GitHub() *gh.Client {
	return c.gh
}

// FileExists reports whether path exists as a file on ref.
func (c *Client) FileExists(ctx context.Context, owner, repo, path, ref string) (bool, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref}
	file, dir, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		wrapped := c.wrapError(err, "get contents")
		if IsNotFound(wrapped) {
			return false, nil
		}
		return false, wrapped
	}

	if file == nil && dir != nil {
		return false, fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	return true, nil
}

// CreateFile commits a new file at path on branch.
func (c *Client) CreateFile(ctx context.Context, owner, repo, path, branch, message string, content []byte) (string, error) {
	if !c.authenticated {
		return "", ErrNoToken
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentFileOptions{
		Message: gh.Ptr(message),
		Content: content,
		Branch:  gh.Ptr(branch),
	}
	res, resp, err := c.gh.Repositories.CreateFile(ctx, owner, repo, path, opts)
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return "", c.wrapError(err, "create file")
	}

	if res != nil && res.Content != nil {
		return res.Content.GetHTMLURL(), nil
	}
	return "", nil
}

// ValidateCredentials checks the token by fetching the authenticated user.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if !c.authenticated {
		return ErrNoToken
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, resp, err := c.gh.Users.Get(ctx, "")
	c.updateRateLimitFromResponse(resp)
	if err != nil {
		return c.wrapError(err, "validate credentials")
	}
	return nil
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{Quota: Quota{
			Limit:     rateLimitErr.Rate.Limit,
			Remaining: rateLimitErr.Rate.Remaining,
			Reset:     rateLimitErr.Rate.Reset.Time,
		}}
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return apiErr
	}

	return fmt.Errorf("%s: %w", operation, err)
}
