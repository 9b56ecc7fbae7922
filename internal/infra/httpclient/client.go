package httpclient

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mawi1/oondl/internal/buildinfo"
)

// maxRedirects bounds the hops between a video page or manifest and the
// location it is finally served from.
const maxRedirects = 10

var errTooManyRedirects = errors.New("too many redirects")

type Config struct {
	// Timeout bounds a single request including its body, so one page, manifest
	// or media chunk. The request context can still cancel earlier.
	Timeout time.Duration

	DialTimeout     time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	// Video and audio chunks are fetched in parallel from the same CDN host.
	MaxConnsPerHost int

	UserAgent string
}

func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		DialTimeout:     5 * time.Second,
		TLSHandshake:    5 * time.Second,
		ResponseHeader:  10 * time.Second,
		IdleConnTimeout: 90 * time.Second,
		MaxConnsPerHost: 4,
		UserAgent:       fmt.Sprintf("%s/%s", buildinfo.AppName, buildinfo.Version),
	}
}

// New returns a client tuned for many small sequential chunk requests.
func New(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DialContext:       dialer.DialContext,
		ForceAttemptHTTP2: true,

		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		MaxIdleConnsPerHost: cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}
}
