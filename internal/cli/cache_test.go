package cli

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/agentscape/pkg/config"
)

func TestCacheDir(t *testing.T) {
	c := New(&lockedBuffer{}, LogInfo)

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}
}

func TestCacheDirXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CACHE_HOME is only honored on Linux")
	}
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	c := New(&lockedBuffer{}, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestCacheDirFromConfig(t *testing.T) {
	c := New(&lockedBuffer{}, LogInfo)
	c.Config.Cache.Dir = "/srv/agentscape/cache"

	dir, err := c.cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/agentscape/cache" {
		t.Errorf("cacheDir() = %q, want the configured dir", dir)
	}
}

func TestNewCacheBackends(t *testing.T) {
	tests := []struct {
		name     string
		backend  string
		noCache  bool
		wantType string
	}{
		{"file", config.BackendFile, false, "*cache.FileCache"},
		{"none", config.BackendNone, false, "cache.NullCache"},
		{"no-cache flag", config.BackendFile, true, "cache.NullCache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(&lockedBuffer{}, LogInfo)
			c.Config.Cache.Backend = tt.backend
			c.Config.Cache.Dir = t.TempDir()

			store, _, err := c.newCache(t.Context(), tt.noCache)
			if err != nil {
				t.Fatal(err)
			}
			defer store.Close()
			if got := typeName(store); got != tt.wantType {
				t.Errorf("backend %q: got %s, want %s", tt.backend, got, tt.wantType)
			}
		})
	}
}

func TestNewCacheRedisUnreachable(t *testing.T) {
	c := New(&lockedBuffer{}, LogInfo)
	c.Config.Cache.Backend = config.BackendRedis
	c.Config.Cache.RedisAddr = "127.0.0.1:1"

	if _, _, err := c.newCache(t.Context(), false); err == nil {
		t.Error("expected error for an unreachable redis")
	}
}

func typeName(v any) string { return fmt.Sprintf("%T", v) }
