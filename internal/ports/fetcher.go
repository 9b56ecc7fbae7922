package ports

import (
	"context"
	"net/url"
)

// Page is a fetched text resource and the URL it was finally served from
// (after redirects).
type Page struct {
	Body     string
	FinalURL *url.URL
}

// Fetcher performs the HTTP side of a download.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (Page, error)
	// DownloadToFile writes the bodies of chunkURLs, in order, into dest.
	// onChunk is called after each chunk has been written.
	DownloadToFile(ctx context.Context, dest string, chunkURLs []string, onChunk func()) error
}
