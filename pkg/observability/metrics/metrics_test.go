package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/agentscape/pkg/observability"
)

func TestPipelineMetrics(t *testing.T) {
	r := New(prometheus.NewRegistry())
	ctx := context.Background()

	r.OnLoadComplete(ctx, "f.csv", 42, time.Millisecond, nil)
	r.OnLoadComplete(ctx, "g.csv", 0, time.Millisecond, errors.New("boom"))
	r.OnLayoutStart(ctx, "scatter", 40)
	r.OnLayoutComplete(ctx, "scatter", time.Millisecond, nil)
	r.OnHitTest(ctx, true)
	r.OnHitTest(ctx, false)
	r.OnHitTest(ctx, false)

	if got := testutil.ToFloat64(r.StageTotal.WithLabelValues("load", "ok")); got != 1 {
		t.Errorf("load ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.StageTotal.WithLabelValues("load", "error")); got != 1 {
		t.Errorf("load error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.LoadedRecords); got != 42 {
		t.Errorf("records = %v, want 42 (failed loads must not overwrite)", got)
	}
	if got := testutil.ToFloat64(r.PlottedPoints.WithLabelValues("scatter")); got != 40 {
		t.Errorf("points = %v, want 40", got)
	}
	if got := testutil.ToFloat64(r.HitTests.WithLabelValues("miss")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}

func TestCacheAndServerMetrics(t *testing.T) {
	r := New(prometheus.NewRegistry())
	ctx := context.Background()

	r.OnCacheHit(ctx, "layout")
	r.OnCacheMiss(ctx, "layout")
	r.OnCacheSet(ctx, "layout", 2048)
	r.OnServe(ctx, "GET", "/api/layout", 200, time.Millisecond)
	r.OnServe(ctx, "GET", "/api/layout", 200, time.Millisecond)
	r.OnResponse(ctx, "GET", "example.com", "/f.csv", 503, time.Millisecond)
	r.OnError(ctx, "GET", "example.com", "/f.csv", errors.New("reset"))

	if got := testutil.ToFloat64(r.CacheEvents.WithLabelValues("layout", "hit")); got != 1 {
		t.Errorf("hits = %v", got)
	}
	if got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("GET", "/api/layout", "200")); got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.FetchTotal.WithLabelValues("example.com", "503")); got != 1 {
		t.Errorf("fetches = %v", got)
	}
	if got := testutil.ToFloat64(r.FetchErrors.WithLabelValues("example.com")); got != 1 {
		t.Errorf("fetch errors = %v", got)
	}
}

func TestRegisterAndHandler(t *testing.T) {
	defer observability.Reset()

	r := New(nil)
	r.Register()
	observability.Pipeline().OnHitTest(context.Background(), true)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	if !strings.Contains(string(body), `agentscape_hit_tests_total{result="hit"} 1`) {
		t.Errorf("exposition missing hit counter:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("default registry should include Go collector")
	}
}
