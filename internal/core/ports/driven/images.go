package driven

import "context"

// ImageFetcher downloads image assets.
type ImageFetcher interface {
	// Fetch returns the raw bytes served at url.
	// Returns domain.ErrImageUnavailable if the host has no such image.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ImageConverter re-encodes image assets.
type ImageConverter interface {
	// ToPNG decodes data (WebP, PNG, JPEG, GIF) and encodes it as PNG.
	ToPNG(data []byte) ([]byte, error)
}

// ImagePublisher uploads image assets to a content host.
type ImagePublisher interface {
	// Publish uploads content to path unless it already exists there,
	// and returns the stable public URL for path.
	Publish(ctx context.Context, path string, content []byte, message string) (string, error)

	// PublicURL returns the public URL for path without uploading.
	PublicURL(path string) string
}
