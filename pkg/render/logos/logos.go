// Package logos caches framework logo images for embedding in SVG output.
//
// The cache is keyed by entity name and filled through an injectable
// [Loader], so renderers never perform I/O themselves:
//
//	c := logos.NewCache(logos.HTTPLoader{Fetcher: fetcher})
//	c.Preload(ctx, logos.Items(records))
//	svg := sink.RenderSVG(l, sink.WithLogos(c))
//
// Failed downloads are remembered and not retried by later Preload calls.
package logos

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/httputil"
)

// DefaultConcurrency bounds parallel downloads in [Cache.Preload].
const DefaultConcurrency = 4

// Image is a decoded-at-render-time logo.
type Image struct {
	ContentType string
	Data        []byte
}

// DataURI returns the image as a data: URI.
func (img Image) DataURI() string {
	return "data:" + img.ContentType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Loader fetches the image at url.
type Loader interface {
	Load(ctx context.Context, url string) (Image, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(ctx context.Context, url string) (Image, error)

func (f LoaderFunc) Load(ctx context.Context, url string) (Image, error) { return f(ctx, url) }

// Item names a logo to load.
type Item struct {
	Name string
	URL  string
}

// Items lists the records that have a logo URL, in input order.
func Items(records []dataset.Record) []Item {
	var items []Item
	for _, r := range records {
		if r.LogoURL != "" {
			items = append(items, Item{Name: r.Name, URL: r.LogoURL})
		}
	}
	return items
}

// Cache holds loaded logos. It is safe for concurrent use.
type Cache struct {
	loader      Loader
	concurrency int

	mu     sync.RWMutex
	images map[string]Image
	failed map[string]error
}

// NewCache returns an empty cache backed by loader.
func NewCache(loader Loader) *Cache {
	return &Cache{
		loader:      loader,
		concurrency: DefaultConcurrency,
		images:      make(map[string]Image),
		failed:      make(map[string]error),
	}
}

// Preload loads every item not yet cached or failed. Individual failures
// are recorded (see [Cache.Err]) and do not stop the others; only
// cancellation of ctx is returned.
func (c *Cache) Preload(ctx context.Context, items []Item) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, c.concurrency))

	for _, it := range items {
		if c.known(it.Name) {
			continue
		}
		g.Go(func() error {
			img, err := c.loader.Load(gctx, it.URL)
			if err == nil && !strings.HasPrefix(img.ContentType, "image/") {
				err = fmt.Errorf("%s: not an image (%q)", it.URL, img.ContentType)
			}
			c.mu.Lock()
			defer c.mu.Unlock()
			if err != nil {
				c.failed[it.Name] = err
				return nil
			}
			c.images[it.Name] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (c *Cache) known(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.images[name]
	_, bad := c.failed[name]
	return ok || bad
}

// Get returns the logo for name.
func (c *Cache) Get(name string) (Image, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[name]
	return img, ok
}

// DataURI returns the logo for name as a data: URI.
func (c *Cache) DataURI(name string) (string, bool) {
	img, ok := c.Get(name)
	if !ok {
		return "", false
	}
	return img.DataURI(), true
}

// Err returns the load error recorded for name, if any.
func (c *Cache) Err(name string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.failed[name]
}

// Len returns the number of cached logos.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// HTTPLoader downloads logos with a [httputil.Fetcher], so responses are
// cached and transient failures retried.
type HTTPLoader struct {
	Fetcher *httputil.Fetcher
}

func (l HTTPLoader) Load(ctx context.Context, url string) (Image, error) {
	f := l.Fetcher
	if f == nil {
		f = &httputil.Fetcher{}
	}
	resp, _, err := f.Fetch(ctx, url, false)
	if err != nil {
		return Image{}, err
	}
	ct, _, _ := strings.Cut(resp.ContentType, ";")
	ct = strings.TrimSpace(ct)
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(resp.Body)
	}
	if strings.HasPrefix(ct, "text/xml") || (strings.HasPrefix(ct, "text/plain") && strings.Contains(string(resp.Body[:min(len(resp.Body), 512)]), "<svg")) {
		ct = "image/svg+xml"
	}
	return Image{ContentType: ct, Data: resp.Body}, nil
}
