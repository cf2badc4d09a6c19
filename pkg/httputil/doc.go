// Package httputil fetches remote datasets and logos.
//
// # Overview
//
//   - [Fetcher]: GET with caching, retries and a body size cap
//   - [Cache]: JSON values stored in a [cache.Cache] under a key prefix
//
// # Caching
//
// Responses are cached by URL in whatever backend the caller supplies (the
// CLI uses a file cache, the server may use Redis). Passing refresh to
// [Fetcher.Fetch] skips the lookup but still stores the new response.
//
//	f := &httputil.Fetcher{Cache: httputil.NewCache(store, 24*time.Hour).Namespace("dataset:")}
//	resp, cached, err := f.Fetch(ctx, "https://example.com/frameworks.csv", false)
//
// # Retry
//
// Transient failures are retried using [cache.Backoff]:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// A 404 is returned immediately as [cache.ErrNotFound].
package httputil
