package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mawi1/oondl/internal/domain"
	"github.com/mawi1/oondl/internal/ports"
)

// Fetcher fetches pages and manifests and streams media chunks to disk.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// FetcherOption allows configuring a Fetcher.
type FetcherOption func(*Fetcher)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) { f.userAgent = ua }
}

// NewFetcher builds a Fetcher from cfg.
func NewFetcher(cfg Config, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    New(cfg),
		userAgent: cfg.UserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ ports.Fetcher = (*Fetcher)(nil)

func (f *Fetcher) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := BuildGet(ctx, rawURL, f.userAgent)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.get",
			Kind: domain.KindNetwork,
			Path: rawURL,
			Err:  err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &domain.OpError{
			Op:   "httpclient.get",
			Kind: domain.KindUnexpected,
			Path: rawURL,
			Err:  fmt.Errorf("unexpected status: %d", resp.StatusCode),
		}
	}
	return resp, nil
}

// Get returns the body of rawURL as text along with the final URL after redirects.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (ports.Page, error) {
	resp, err := f.do(ctx, rawURL)
	if err != nil {
		return ports.Page{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.Page{}, &domain.OpError{
			Op:   "httpclient.read",
			Kind: domain.KindNetwork,
			Path: rawURL,
			Err:  err,
		}
	}

	return ports.Page{
		Body:     string(body),
		FinalURL: resp.Request.URL,
	}, nil
}

func (f *Fetcher) DownloadToFile(ctx context.Context, dest string, chunkURLs []string, onChunk func()) error {
	file, err := os.Create(dest)
	if err != nil {
		return &domain.OpError{
			Op:   "httpclient.create",
			Kind: domain.KindFile,
			Path: dest,
			Err:  err,
		}
	}
	defer file.Close()

	for _, u := range chunkURLs {
		if err := f.copyChunk(ctx, file, u); err != nil {
			return err
		}
		if onChunk != nil {
			onChunk()
		}
	}

	if err := file.Close(); err != nil {
		return &domain.OpError{
			Op:   "httpclient.close",
			Kind: domain.KindFile,
			Path: dest,
			Err:  err,
		}
	}
	return nil
}

func (f *Fetcher) copyChunk(ctx context.Context, w io.Writer, rawURL string) error {
	resp, err := f.do(ctx, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	buf := make([]byte, 64*1024)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return &domain.OpError{
					Op:   "httpclient.write",
					Kind: domain.KindFile,
					Err:  werr,
				}
			}
		}
		if rerr == io.EOF {
			return nil
		}
		if rerr != nil {
			return &domain.OpError{
				Op:   "httpclient.read",
				Kind: domain.KindNetwork,
				Path: rawURL,
				Err:  rerr,
			}
		}
	}
}
