package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gachadex/catalogsync/internal/adapters/driven/catalogfile"
	"github.com/gachadex/catalogsync/internal/core/domain"
)

type fakeSource struct {
	characters []domain.SourceCharacter
	weapons    []domain.SourceWeapon
	pictures   []domain.ProfilePicture
	err        error
}

func (s *fakeSource) Characters(context.Context) ([]domain.SourceCharacter, error) {
	return s.characters, s.err
}

func (s *fakeSource) Weapons(context.Context) ([]domain.SourceWeapon, error) {
	return s.weapons, s.err
}

func (s *fakeSource) ProfilePictures(context.Context) ([]domain.ProfilePicture, error) {
	return s.pictures, s.err
}

// fakeFetcher serves images from a map; unknown URLs are unavailable.
type fakeFetcher struct {
	mu     sync.Mutex
	images map[string][]byte
	calls  []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{images: make(map[string][]byte)}
}

func (f *fakeFetcher) add(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images[url] = []byte("img:" + url)
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	data, ok := f.images[url]
	if !ok {
		return nil, fmt.Errorf("%s: %w", url, domain.ErrImageUnavailable)
	}
	return data, nil
}

type fakeConverter struct {
	err error
}

func (c *fakeConverter) ToPNG(data []byte) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return append([]byte("png:"), data...), nil
}

// fakePublisher records uploads by path.
type fakePublisher struct {
	mu        sync.Mutex
	published map[string]string
	content   map[string][]byte
	failPath  string
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		published: make(map[string]string),
		content:   make(map[string][]byte),
	}
}

func (p *fakePublisher) PublicURL(path string) string {
	return "https://cdn.test/" + path
}

func (p *fakePublisher) Publish(_ context.Context, path string, content []byte, message string) (string, error) {
	if path == p.failPath {
		return "", errors.New("upload rejected")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published[path] = message
	p.content[path] = content
	return p.PublicURL(path), nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

// newTestFiles returns catalog files rooted in a temp dir.
func newTestFiles(t *testing.T) *catalogfile.Files {
	t.Helper()
	dir := t.TempDir()
	return catalogfile.New(domain.PathSettings{
		Characters: filepath.Join(dir, "characters.json"),
		Weapons:    filepath.Join(dir, "weapons.json"),
		Avatars:    filepath.Join(dir, "avatars.json"),
	})
}
