package httpclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/mawi1/oondl/internal/domain"
)

// BuildGet builds a GET request with the configured user agent.
func BuildGet(ctx context.Context, rawURL, userAgent string) (*http.Request, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindUnexpected,
			Err:  domain.ErrInvalidURL,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindUnexpected,
			Path: rawURL,
			Err:  err,
		}
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	return req, nil
}
