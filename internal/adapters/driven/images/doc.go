// Package images downloads and re-encodes catalog image assets.
//
//   - Fetcher: HTTP downloads with proactive throttling
//   - Converter: WebP/PNG/JPEG/GIF decoding and PNG encoding
package images
