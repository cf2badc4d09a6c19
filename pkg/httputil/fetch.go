package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/agentscape/pkg/cache"
	"github.com/matzehuels/agentscape/pkg/errors"
	"github.com/matzehuels/agentscape/pkg/observability"
)

// DefaultMaxBytes caps response bodies read by [Fetcher].
const DefaultMaxBytes = 16 << 20

// Response is a fetched (or cached) HTTP body.
type Response struct {
	URL         string    `json:"url"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Fetcher performs GET requests with response caching and retries.
// The zero value uses http.DefaultClient, no cache and [cache.DefaultBackoff].
type Fetcher struct {
	Client    *http.Client
	Cache     *Cache
	Backoff   cache.Backoff
	UserAgent string
	MaxBytes  int64
}

// Fetch returns the body at url, serving from the cache when possible.
// With refresh set the cache is not read but is still updated.
//
// Status handling: 404 maps to [cache.ErrNotFound]; 429 and 5xx responses
// and transport failures are retried and surface as [cache.ErrNetwork].
func (f *Fetcher) Fetch(ctx context.Context, url string, refresh bool) (Response, bool, error) {
	if err := errors.ValidateURL(url); err != nil {
		return Response{}, false, err
	}

	if f.Cache != nil && !refresh {
		var resp Response
		if ok, err := f.Cache.Get(ctx, url, &resp); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "http")
			return resp, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "http")
	}

	var resp Response
	backoff := f.Backoff
	if backoff.Attempts == 0 {
		backoff = cache.DefaultBackoff
	}
	err := backoff.Retry(ctx, func() error {
		var err error
		resp, err = f.get(ctx, url)
		return err
	})
	if err != nil {
		return Response{}, false, err
	}

	if f.Cache != nil {
		if err := f.Cache.Set(ctx, url, resp); err == nil {
			observability.Cache().OnCacheSet(ctx, "http", len(resp.Body))
		}
	}
	return resp, false, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Response{}, err
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	res, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return Response{}, ctx.Err()
		}
		return Response{}, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer res.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, res.StatusCode, time.Since(start))

	switch {
	case res.StatusCode == http.StatusNotFound:
		return Response{}, fmt.Errorf("%w: %s", cache.ErrNotFound, url)
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500:
		return Response{}, cache.Retryable(fmt.Errorf("%w: %s returned %s", cache.ErrNetwork, url, res.Status))
	case res.StatusCode >= 400:
		return Response{}, fmt.Errorf("%s returned %s", url, res.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return Response{}, cache.Retryable(fmt.Errorf("%w: reading %s: %v", cache.ErrNetwork, url, err))
	}
	if int64(len(body)) > limit {
		return Response{}, fmt.Errorf("%s: response exceeds %d bytes", url, limit)
	}

	return Response{
		URL:         url,
		ContentType: res.Header.Get("Content-Type"),
		Body:        body,
		FetchedAt:   time.Now().UTC(),
	}, nil
}
