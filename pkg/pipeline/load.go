package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/agentscape/pkg/cache"
	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/dataset/mongo"
	"github.com/matzehuels/agentscape/pkg/errors"
	"github.com/matzehuels/agentscape/pkg/httputil"
	"github.com/matzehuels/agentscape/pkg/observability"
)

// SourceKind classifies a dataset source string.
type SourceKind string

const (
	SourceFile  SourceKind = "file"
	SourceHTTP  SourceKind = "http"
	SourceMongo SourceKind = "mongo"
)

// KindOf reports how source will be loaded.
func KindOf(source string) SourceKind {
	switch {
	case mongo.IsURI(source):
		return SourceMongo
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return SourceHTTP
	default:
		return SourceFile
	}
}

// Load reads, validates and de-duplicates the records of opts.Source.
func (r *Runner) Load(ctx context.Context, opts Options) ([]dataset.Record, error) {
	records, _, err := r.LoadWithCacheInfo(ctx, opts)
	return records, err
}

// LoadWithCacheInfo is [Runner.Load] that also reports whether the records
// came from the cache. Only remote sources are cached.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (records []dataset.Record, hit bool, err error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	kind := KindOf(opts.Source)
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, string(kind))
	start := time.Now()
	defer func() {
		hooks.OnLoadComplete(ctx, string(kind), len(records), time.Since(start), err)
	}()

	key := r.Keyer.DatasetKey(opts.Source)
	if kind != SourceFile && !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			var cached []dataset.Record
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "dataset")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "dataset")
	}

	switch kind {
	case SourceMongo:
		records, err = mongo.Load(ctx, opts.Source)
	case SourceHTTP:
		records, err = r.fetchDataset(ctx, opts.Source, opts.Refresh)
	default:
		records, err = dataset.ReadFile(opts.Source)
	}
	if err != nil {
		return nil, false, err
	}
	if err := dataset.Validate(records); err != nil {
		return nil, false, err
	}
	if dups := dataset.Duplicates(records); len(dups) > 0 {
		r.Logger.Warn("duplicate names renamed", "names", dups)
		records = dataset.UniqueNames(records)
	}

	if kind != SourceFile {
		if data, err := json.Marshal(records); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLDataset); err == nil {
				observability.Cache().OnCacheSet(ctx, "dataset", len(data))
			}
		}
	}
	return records, false, nil
}

func (r *Runner) fetchDataset(ctx context.Context, source string, refresh bool) ([]dataset.Record, error) {
	f := r.Fetcher
	if f == nil {
		f = &httputil.Fetcher{}
	}
	if f.Cache == nil {
		f = &httputil.Fetcher{
			Client:    f.Client,
			Cache:     httputil.NewCache(r.Cache, cache.TTLHTTP).Namespace(r.Keyer.HTTPKey("dataset", "")),
			Backoff:   f.Backoff,
			UserAgent: f.UserAgent,
			MaxBytes:  f.MaxBytes,
		}
	}

	resp, _, err := f.Fetch(ctx, source, refresh)
	if err != nil {
		switch {
		case stderrors.Is(err, cache.ErrNotFound):
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "dataset %s", source)
		case stderrors.Is(err, cache.ErrNetwork):
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch dataset")
		case stderrors.Is(err, context.DeadlineExceeded):
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "fetch dataset")
		}
		return nil, err
	}

	format, err := remoteFormat(source, resp.ContentType)
	if err != nil {
		return nil, err
	}
	return dataset.Parse(resp.Body, format)
}

// remoteFormat picks a dataset format from the URL path extension, falling
// back to the response content type.
func remoteFormat(rawURL, contentType string) (dataset.Format, error) {
	if u, err := url.Parse(rawURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" {
			if f, err := dataset.ParseFormat(ext); err == nil {
				return f, nil
			}
		}
	}
	mt, _, _ := mime.ParseMediaType(contentType)
	switch mt {
	case "text/csv":
		return dataset.FormatCSV, nil
	case "application/json":
		return dataset.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return dataset.FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot determine dataset format of %s (content type %q)", rawURL, contentType)
}

// Filter applies the category and query options.
func (r *Runner) Filter(records []dataset.Record, opts Options) []dataset.Record {
	return opts.Filter().Apply(records)
}
