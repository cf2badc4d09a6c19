package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/agentscape/pkg/cache"
	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/httputil"
	"github.com/matzehuels/agentscape/pkg/observability"
	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render/logos"
	"github.com/matzehuels/agentscape/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, the logo cache and the
// logger - it doesn't store pipeline results. Multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Fetcher loads http(s) datasets and logos. Nil means a default
	// fetcher backed by Cache.
	Fetcher *httputil.Fetcher

	// Logos holds downloaded logos. Nil means one is created on first use.
	Logos *logos.Cache

	logosOnce sync.Once
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	records, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.Loaded = len(records)
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loadHit

	r.Logger.Info("loaded dataset",
		"source", opts.Source,
		"records", len(records),
		"duration", result.Stats.LoadTime)

	records = r.Filter(records, opts)
	result.Records = records
	result.DatasetHash = DatasetHash(records)

	// Stage 2: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, records, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Plotted = len(layout.Points)
	for _, p := range layout.Points {
		if p.Displaced() {
			result.Stats.Displaced++
		}
	}
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"viz_type", layout.VizType,
		"points", result.Stats.Plotted,
		"displaced", result.Stats.Displaced,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// DatasetHash returns the content hash of records, used to key layouts.
func DatasetHash(records []dataset.Record) string {
	data, _ := json.Marshal(records)
	return cache.Hash(data)
}

// GenerateLayoutWithCacheInfo generates a layout with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, records []dataset.Record, opts Options) (l plot.Layout, hit bool, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return plot.Layout{}, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.VizType, len(records))
	start := time.Now()
	defer func() { hooks.OnLayoutComplete(ctx, opts.VizType, time.Since(start), err) }()

	cacheKey := r.Keyer.LayoutKey(DatasetHash(records), opts.LayoutKeyOpts())

	// Try cache first
	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, cacheKey); err == nil && ok {
			cached, err := plot.UnmarshalLayout(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, err = GenerateLayout(records, opts)
	if err != nil {
		return plot.Layout{}, false, err
	}

	if data, err := plot.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, records []dataset.Record, opts Options) (plot.Layout, error) {
	l, _, err := r.GenerateLayoutWithCacheInfo(ctx, records, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// Logos referenced by the layout are downloaded first when opts.Logos is set.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l plot.Layout, opts Options) (artifacts map[string][]byte, hit bool, err error) {
	r.applyLogger(&opts)
	opts = applyLayoutMetadata(opts, l)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	if err := ValidateTheme(opts.Theme); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() { hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err) }()

	// Compute cache key from layout data
	layoutData, err := plot.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts = make(map[string][]byte)
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, ok, err := r.Cache.Get(ctx, key)
			if err != nil || !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	var src *logos.Cache
	if opts.Logos && l.IsScatter() {
		src = r.logoCache()
		if err := src.Preload(ctx, LogoItems(l)); err != nil {
			return nil, false, err
		}
		for _, item := range LogoItems(l) {
			if lerr := src.Err(item.Name); lerr != nil {
				opts.Logger.Warn("logo unavailable", "name", item.Name, "err", lerr)
			}
		}
	}

	var logoSrc sink.LogoSource
	if src != nil {
		logoSrc = src
	}
	rendered, err := RenderFromLayout(ctx, l, opts, logoSrc)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l plot.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// HitTest returns the first point (in layout order) of l containing
// (px, py) and records
// the outcome.
func (r *Runner) HitTest(ctx context.Context, l plot.Layout, px, py float64) (plot.Point, bool) {
	p, ok := l.HitTest(px, py)
	observability.Pipeline().OnHitTest(ctx, ok)
	return p, ok
}

func (r *Runner) logoCache() *logos.Cache {
	r.logosOnce.Do(func() {
		if r.Logos != nil {
			return
		}
		f := r.Fetcher
		if f == nil {
			f = &httputil.Fetcher{Cache: httputil.NewCache(r.Cache, cache.TTLHTTP).Namespace(r.Keyer.HTTPKey("logo", ""))}
		}
		r.Logos = logos.NewCache(logos.HTTPLoader{Fetcher: f})
	})
	return r.Logos
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
