package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/agentscape/pkg/cache"
)

func newFileCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewCache(store, ttl)
}

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t, time.Hour)

	want := Response{URL: "https://x/f.csv", ContentType: "text/csv", Body: []byte("name\nA\n")}
	if err := c.Set(ctx, want.URL, want); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	var got Response
	ok, err := c.Get(ctx, want.URL, &got)
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v; want true, nil", ok, err)
	}
	if got.ContentType != want.ContentType || string(got.Body) != string(want.Body) {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCache_Miss(t *testing.T) {
	c := newFileCache(t, time.Hour)
	var result string
	ok, err := c.Get(context.Background(), "missing", &result)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("Get() returned true for missing key")
	}
}

func TestCache_NilStore(t *testing.T) {
	ctx := context.Background()
	c := NewCache(nil, time.Hour)
	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	var s string
	if ok, _ := c.Get(ctx, "k", &s); ok {
		t.Error("nil store should never hit")
	}
}

func TestCache_Namespace(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t, time.Hour)

	t.Run("basicNamespacing", func(t *testing.T) {
		datasets := c.Namespace("dataset:")
		logos := c.Namespace("logo:")

		if err := datasets.Set(ctx, "https://x", "dataset-body"); err != nil {
			t.Fatal(err)
		}
		if err := logos.Set(ctx, "https://x", "logo-body"); err != nil {
			t.Fatal(err)
		}

		var d, l string
		if ok, err := datasets.Get(ctx, "https://x", &d); !ok || err != nil {
			t.Fatalf("datasets.Get() = %v, %v", ok, err)
		}
		if ok, err := logos.Get(ctx, "https://x", &l); !ok || err != nil {
			t.Fatalf("logos.Get() = %v, %v", ok, err)
		}
		if d != "dataset-body" || l != "logo-body" {
			t.Errorf("namespace isolation violated: %q, %q", d, l)
		}
	})

	t.Run("chainedNamespacing", func(t *testing.T) {
		outer := c.Namespace("http:")
		inner := outer.Namespace("logo:")

		if err := inner.Set(ctx, "test", "value"); err != nil {
			t.Fatal(err)
		}
		var result string
		if ok, err := inner.Get(ctx, "test", &result); !ok || err != nil || result != "value" {
			t.Errorf("Get() = %v, %v, %q", ok, err, result)
		}
		if found, _ := outer.Get(ctx, "test", &result); found {
			t.Error("value accessible without full namespace chain")
		}
	})

	t.Run("preservesTTL", func(t *testing.T) {
		if c.Namespace("x:").TTL() != c.TTL() {
			t.Error("namespace should share TTL")
		}
	})
}
