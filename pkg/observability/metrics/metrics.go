// Package metrics implements the observability hooks with Prometheus
// collectors.
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.Register() // installs m as pipeline, cache, HTTP and server hooks
//	http.Handle("/metrics", m.Handler())
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/agentscape/pkg/observability"
)

const namespace = "agentscape"

// Registry holds every collector.
type Registry struct {
	// Pipeline
	StageTotal    *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	LoadedRecords prometheus.Gauge
	PlottedPoints *prometheus.GaugeVec
	HitTests      *prometheus.CounterVec

	// Cache
	CacheEvents   *prometheus.CounterVec
	CacheSetBytes *prometheus.HistogramVec

	// Outgoing HTTP
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	FetchErrors   *prometheus.CounterVec

	// API server
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates collectors on reg. A nil reg gets a fresh registry with the
// Go and process collectors.
func New(reg *prometheus.Registry) *Registry {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	f := promauto.With(reg)
	r := &Registry{registry: reg}

	r.StageTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_stage_total",
		Help:      "Completed pipeline stages by stage and outcome",
	}, []string{"stage", "outcome"})
	r.StageDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_stage_duration_seconds",
		Help:      "Pipeline stage latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})
	r.LoadedRecords = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_records",
		Help:      "Records in the most recently loaded dataset",
	})
	r.PlottedPoints = f.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "layout_points",
		Help:      "Points in the most recent layout by visualization type",
	}, []string{"viz_type"})
	r.HitTests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hit_tests_total",
		Help:      "Pointer lookups by result",
	}, []string{"result"})

	r.CacheEvents = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_events_total",
		Help:      "Cache lookups and writes by key type and event",
	}, []string{"key_type", "event"})
	r.CacheSetBytes = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cache_set_bytes",
		Help:      "Size of cache writes in bytes",
		Buckets:   []float64{1 << 10, 16 << 10, 128 << 10, 1 << 20, 8 << 20},
	}, []string{"key_type"})

	r.FetchTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_requests_total",
		Help:      "Outgoing HTTP responses by host and status",
	}, []string{"host", "status"})
	r.FetchDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Outgoing HTTP latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"host"})
	r.FetchErrors = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_errors_total",
		Help:      "Outgoing HTTP transport failures by host",
	}, []string{"host"})

	r.RequestsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of API requests",
	}, []string{"method", "route", "status"})
	r.RequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "API request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	return r
}

// Register installs r as every observability hook.
func (r *Registry) Register() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetHTTPHooks(r)
	observability.SetServerHooks(r)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (r *Registry) stage(name string, d time.Duration, err error) {
	r.StageTotal.WithLabelValues(name, outcome(err)).Inc()
	r.StageDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (r *Registry) OnLoadStart(context.Context, string) {}

func (r *Registry) OnLoadComplete(_ context.Context, _ string, records int, d time.Duration, err error) {
	r.stage("load", d, err)
	if err == nil {
		r.LoadedRecords.Set(float64(records))
	}
}

func (r *Registry) OnLayoutStart(_ context.Context, vizType string, points int) {
	r.PlottedPoints.WithLabelValues(vizType).Set(float64(points))
}

func (r *Registry) OnLayoutComplete(_ context.Context, _ string, d time.Duration, err error) {
	r.stage("layout", d, err)
}

func (r *Registry) OnRenderStart(context.Context, []string) {}

func (r *Registry) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	r.stage("render", d, err)
}

func (r *Registry) OnHitTest(_ context.Context, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.HitTests.WithLabelValues(result).Inc()
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, size int) {
	r.CacheEvents.WithLabelValues(keyType, "set").Inc()
	r.CacheSetBytes.WithLabelValues(keyType).Observe(float64(size))
}

func (r *Registry) OnRequest(context.Context, string, string, string) {}

func (r *Registry) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	r.FetchTotal.WithLabelValues(host, strconv.Itoa(status)).Inc()
	r.FetchDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (r *Registry) OnError(_ context.Context, _, host, _ string, _ error) {
	r.FetchErrors.WithLabelValues(host).Inc()
}

func (r *Registry) OnServe(_ context.Context, method, route string, status int, d time.Duration) {
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
	_ observability.ServerHooks   = (*Registry)(nil)
)
