package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/gachadex/catalogsync/internal/core/domain"
	"github.com/gachadex/catalogsync/internal/core/ports/driven"
	"github.com/gachadex/catalogsync/internal/logger"
)

// RawBaseURL serves repository files over plain HTTPS.
const RawBaseURL = "https://raw.githubusercontent.com"

// Ensure Publisher implements the interface.
var _ driven.ImagePublisher = (*Publisher)(nil)

// Publisher uploads images to a repository branch and returns raw URLs.
type Publisher struct {
	client  *Client
	target  domain.GitHubSettings
	rawBase string
}

// NewPublisher creates a publisher for the configured repository.
func NewPublisher(client *Client, target domain.GitHubSettings) *Publisher {
	return &Publisher{
		client:  client,
		target:  target,
		rawBase: RawBaseURL,
	}
}

// PublicURL returns the raw URL for path on the configured branch.
func (p *Publisher) PublicURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		p.rawBase, p.target.User, p.target.Repo, p.target.Branch, strings.TrimPrefix(path, "/"))
}

// Publish uploads content to path unless the file is already on the branch.
func (p *Publisher) Publish(ctx context.Context, path string, content []byte, message string) (string, error) {
	path = strings.TrimPrefix(path, "/")
	url := p.PublicURL(path)

	exists, err := p.client.FileExists(ctx, p.target.User, p.target.Repo, path, p.target.Branch)
	if err != nil {
		return "", fmt.Errorf("check %s: %w", path, err)
	}
	if exists {
		logger.Debug("File %s already exists, skipping upload", path)
		return url, nil
	}

	htmlURL, err := p.client.CreateFile(ctx, p.target.User, p.target.Repo, path, p.target.Branch, message, content)
	if err != nil {
		if IsConflict(err) {
			logger.Debug("File %s was created concurrently, skipping upload", path)
			return url, nil
		}
		return "", fmt.Errorf("upload %s: %w", path, err)
	}

	logger.Info("Uploaded %s (%s)", path, htmlURL)
	return url, nil
}
