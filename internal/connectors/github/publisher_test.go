package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	gh "github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gachadex/catalogsync/internal/core/domain"
)

// fakeContents is a minimal Contents API backed by a map of paths.
type fakeContents struct {
	mu       sync.Mutex
	files    map[string][]byte
	puts     []string
	failPut  int
	branches []string
	badToken bool
}

func (f *fakeContents) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/user" {
		if f.badToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Bad credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"login":"owner"}`))
		return
	}

	const prefix = "/repos/owner/cdn/contents/"
	if len(r.URL.Path) <= len(prefix) || r.URL.Path[:len(prefix)] != prefix {
		http.NotFound(w, r)
		return
	}
	path := r.URL.Path[len(prefix):]

	switch r.Method {
	case http.MethodGet:
		if _, ok := f.files[path]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"type":"file","path":"` + path + `","encoding":"base64","content":""}`))
	case http.MethodPut:
		if f.failPut != 0 {
			w.WriteHeader(f.failPut)
			_, _ = w.Write([]byte(`{"message":"failed"}`))
			return
		}
		var body struct {
			Message string `json:"message"`
			Content []byte `json:"content"`
			Branch  string `json:"branch"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.files[path] = body.Content
		f.puts = append(f.puts, path)
		f.branches = append(f.branches, body.Branch)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"content":{"path":"` + path + `","html_url":"https://github.com/owner/cdn/blob/main/` + path + `"}}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestPublisher(t *testing.T, fake *fakeContents) *Publisher {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := NewClientWithHTTPClient(srv.Client(), NewRateLimiterWithRate(1000))
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.GitHub().BaseURL = base

	return NewPublisher(client, domain.GitHubSettings{User: "owner", Repo: "cdn", Branch: "main"})
}

func TestPublisher_PublicURL(t *testing.T) {
	p := NewPublisher(nil, domain.GitHubSettings{User: "owner", Repo: "cdn", Branch: "main"})

	assert.Equal(t,
		"https://raw.githubusercontent.com/owner/cdn/main/images/weapons/a.png",
		p.PublicURL("images/weapons/a.png"))
	assert.Equal(t, p.PublicURL("x.png"), p.PublicURL("/x.png"))
}

func TestPublisher_Publish_Uploads(t *testing.T) {
	fake := &fakeContents{files: map[string][]byte{}}
	p := newTestPublisher(t, fake)

	got, err := p.Publish(context.Background(), "images/avatars/a.png", []byte("png"), "Upload avatar")
	require.NoError(t, err)

	assert.Equal(t, p.PublicURL("images/avatars/a.png"), got)
	assert.Equal(t, []string{"images/avatars/a.png"}, fake.puts)
	assert.Equal(t, []string{"main"}, fake.branches)
	assert.Equal(t, []byte("png"), fake.files["images/avatars/a.png"])
}

func TestPublisher_Publish_SkipsExisting(t *testing.T) {
	fake := &fakeContents{files: map[string][]byte{"images/a.png": []byte("old")}}
	p := newTestPublisher(t, fake)

	got, err := p.Publish(context.Background(), "images/a.png", []byte("new"), "Upload")
	require.NoError(t, err)

	assert.Equal(t, p.PublicURL("images/a.png"), got)
	assert.Empty(t, fake.puts)
	assert.Equal(t, []byte("old"), fake.files["images/a.png"])
}

func TestPublisher_Publish_ConflictIsSuccess(t *testing.T) {
	fake := &fakeContents{files: map[string][]byte{}, failPut: http.StatusUnprocessableEntity}
	p := newTestPublisher(t, fake)

	_, err := p.Publish(context.Background(), "images/a.png", []byte("x"), "Upload")
	assert.NoError(t, err)
}

func TestPublisher_Publish_Unauthorized(t *testing.T) {
	fake := &fakeContents{files: map[string][]byte{}, failPut: http.StatusUnauthorized}
	p := newTestPublisher(t, fake)

	_, err := p.Publish(context.Background(), "images/a.png", []byte("x"), "Upload")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_ValidateCredentials(t *testing.T) {
	p := newTestPublisher(t, &fakeContents{files: map[string][]byte{}})

	assert.NoError(t, p.client.ValidateCredentials(context.Background()))
}

func TestClient_ValidateCredentials_BadToken(t *testing.T) {
	p := newTestPublisher(t, &fakeContents{files: map[string][]byte{}, badToken: true})

	err := p.client.ValidateCredentials(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
}

func TestClient_ValidateCredentials_NoToken(t *testing.T) {
	c := NewClientWithToken(context.Background(), "")

	assert.ErrorIs(t, c.ValidateCredentials(context.Background()), ErrNoToken)
}

func TestClient_CreateFile_NoToken(t *testing.T) {
	c := NewClientWithToken(context.Background(), "")

	_, err := c.CreateFile(context.Background(), "o", "r", "p", "main", "m", nil)
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestWrapError_ErrorResponse(t *testing.T) {
	c := NewClientWithHTTPClient(http.DefaultClient, nil)
	req, _ := http.NewRequest(http.MethodGet, "https://api.github.com/x", nil)
	err := c.wrapError(&gh.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusNotFound, Request: req},
		Message:  "Not Found",
	}, "get")

	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "https://api.github.com/x")
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter()
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "42")
	resp.Header.Set(HeaderRateLimit, "60")
	resp.Header.Set(HeaderRateReset, "1700000000")

	r.UpdateFromResponse(resp)

	q := r.Quota()
	assert.Equal(t, 42, q.Remaining)
	assert.Equal(t, 60, q.Limit)
	assert.Equal(t, int64(1700000000), q.Reset.Unix())
}

func TestRateLimiter_IgnoresMalformedHeaders(t *testing.T) {
	r := NewRateLimiter()
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "lots")

	r.UpdateFromResponse(resp)

	assert.Equal(t, DefaultQuota, r.Quota().Remaining)
}

func TestRateLimitError_MatchesDomain(t *testing.T) {
	err := fmt.Errorf("publish: %w", &RateLimitError{Quota: Quota{Reset: time.Unix(0, 0)}})

	assert.True(t, IsRateLimited(err))
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	r := NewRateLimiterWithRate(0.001)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, r.Wait(ctx)) // burst token
	cancel()
	assert.Error(t, r.Wait(ctx))
}
