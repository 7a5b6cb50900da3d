// Package github publishes catalog images to a GitHub repository used as a CDN.
//
// Images are committed through the Contents API onto a configured branch
// and served from raw.githubusercontent.com. Files that already exist on the
// branch are never overwritten, so re-running ingestion only uploads new
// assets.
//
// # Authentication
//
// A personal access token with contents write permission is required for
// uploads. Without a token the publisher can still build public URLs, which
// is what ingestion runs with uploads disabled rely on.
//
// # Rate Limiting
//
// Every call waits on a token bucket paced at UploadRate. The client also
// records the X-RateLimit-* headers of each response; once the remaining
// quota falls under ReserveRequests, calls block until the reported reset.
// An exhausted quota surfaces as *RateLimitError, which matches
// domain.ErrRateLimited.
//
// # Example Usage
//
//	client := github.NewClientWithToken(ctx, token)
//	publisher := github.NewPublisher(client, settings.GitHub)
//	url, err := publisher.Publish(ctx, "images/weapons/x.png", data, "Upload weapon icon")
package github
