// Package pkg provides the core libraries for Agentscape, a scatter plot of
// AI agent frameworks placed by code level, complexity and learning curve.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. [scatter] - Domain logic (deterministic layout, viewport, hit testing)
//  2. [dataset] - Framework records from CSV, JSON, YAML, HTTP or MongoDB
//  3. [render] - SVG, PNG, PDF and JSON output plus the Graphviz category map
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//
// # Architecture
//
// The typical data flow:
//
//	CSV / JSON / YAML / URL / MongoDB
//	         ↓
//	    [dataset] package (records, validation, filters)
//	         ↓
//	    [scatter] package (positions, displacement of collisions)
//	         ↓
//	    [plot] package (serializable layout with pixel centers)
//	         ↓
//	    [render] package (SVG/PDF/PNG/JSON output)
//
// Hit testing runs against the same [plot] layout, so a pixel selects the
// framework drawn there.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/agentscape/pkg/cache"
//	    "github.com/matzehuels/agentscape/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Source:  "frameworks.csv",
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//	p, ok := result.Layout.HitTest(412, 230)
//
// # Supporting Packages
//
// [cache] - File, Redis and no-op caches with hierarchical keys.
//
// [config] - TOML configuration with validated defaults.
//
// [httputil] - Cached HTTP fetching for remote datasets and logos.
//
// [observability] - Hooks for metrics; [observability/metrics] implements
// them with Prometheus.
//
// [errors] - Coded errors mapped to HTTP statuses.
//
// [scatter]: github.com/matzehuels/agentscape/pkg/scatter
// [dataset]: github.com/matzehuels/agentscape/pkg/dataset
// [render]: github.com/matzehuels/agentscape/pkg/render
// [pipeline]: github.com/matzehuels/agentscape/pkg/pipeline
// [plot]: github.com/matzehuels/agentscape/pkg/plot
// [cache]: github.com/matzehuels/agentscape/pkg/cache
// [config]: github.com/matzehuels/agentscape/pkg/config
// [httputil]: github.com/matzehuels/agentscape/pkg/httputil
// [observability]: github.com/matzehuels/agentscape/pkg/observability
// [observability/metrics]: github.com/matzehuels/agentscape/pkg/observability/metrics
// [errors]: github.com/matzehuels/agentscape/pkg/errors
package pkg
