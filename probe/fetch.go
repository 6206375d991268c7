package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTimeout     = 5 * time.Second
	DefaultMaxBodySize = 5 * 1024 * 1024
	DefaultUserAgent   = "urlfeatures/1.0"
)

// Fetcher downloads and parses HTML pages. Concurrent requests for the same URL
// share a single download.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
	inflight    singleflight.Group
}

type FetcherOption func(*Fetcher)

func WithUserAgent(agent string) FetcherOption {
	return func(f *Fetcher) {
		if len(agent) != 0 {
			f.userAgent = agent
		}
	}
}

func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithHTTPClient replaces the default client. The client's timeout is kept as
// configured by the caller.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

func NewFetcher(timeout time.Duration, opts ...FetcherOption) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	fetcher := &Fetcher{
		client:      &http.Client{Timeout: timeout},
		timeout:     timeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(fetcher)
	}

	return fetcher
}

// Fetch returns the parsed page or nil if the page could not be retrieved or
// parsed. Callers treat nil as "no data". A shared download is bounded by the
// fetcher's timeout only, so a caller giving up early does not fail the
// others waiting for the same page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) *goquery.Document {
	detached := context.WithoutCancel(ctx)

	ch := f.inflight.DoChan(rawURL, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(detached, f.timeout)
		defer cancel()

		return f.fetch(fetchCtx, rawURL)
	})

	var (
		doc *goquery.Document
		err error
	)

	select {
	case res := <-ch:
		if res.Err == nil {
			doc = res.Val.(*goquery.Document) // nolint: forcetypeassert
		}

		err = res.Err
	case <-ctx.Done():
		err = ctx.Err()
	}

	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("_url", rawURL).Msg("Fetching page failed")

		return nil
	}

	return doc
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: HTTP %d for %s", ErrUnexpectedStatus, resp.StatusCode, rawURL)
	}

	doc, err := ParseDocument(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return doc, nil
}
