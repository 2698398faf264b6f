package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/logger"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "docdrift"
)

// HTTPClient is the subset of *http.Client the fetcher needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPFetcher downloads documentation sources and returns their text as UTF-8.
type HTTPFetcher struct {
	client HTTPClient
	// readLimit bounds how many raw bytes are read from one response.
	readLimit int64
}

// NewHTTPFetcher returns a fetcher that reads at most readLimit bytes per
// document. The default http.Client follows redirects.
func NewHTTPFetcher(readLimit int64) *HTTPFetcher {
	return NewHTTPFetcherWithClient(&http.Client{Timeout: defaultTimeout}, readLimit)
}

func NewHTTPFetcherWithClient(client HTTPClient, readLimit int64) *HTTPFetcher {
	return &HTTPFetcher{client: client, readLimit: readLimit}
}

// Fetch downloads url and decodes it to UTF-8 using the response charset.
// Any transport failure or non-2xx status is returned as ErrDocFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	log := logger.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domainErrors.ErrDocFetch.WithContext("url", url).WithError(err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/markdown, text/plain, text/html;q=0.9, */*;q=0.5")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, domainErrors.ErrDocFetch.WithContext("url", url).WithError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domainErrors.ErrDocFetch.
			WithContext("url", url).
			WithContext("status", resp.StatusCode).
			WithContext("detail", fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	var body io.Reader = resp.Body
	if f.readLimit > 0 {
		body = io.LimitReader(body, f.readLimit)
	}

	reader, err := charset.NewReader(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, domainErrors.ErrDocFetch.WithContext("url", url).WithError(err)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, domainErrors.ErrDocFetch.WithContext("url", url).WithError(err)
	}

	log.Debug("documentation fetched",
		"url", url,
		"size", len(data),
		"duration_ms", time.Since(start).Milliseconds())

	return data, nil
}
