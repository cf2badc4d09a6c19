package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/agentscape/pkg/errors"
	"github.com/matzehuels/agentscape/pkg/scatter"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, scatter.DefaultAxes, cfg.Axes())
	assert.Equal(t, scatter.DefaultJitterAmount, cfg.Layout.JitterAmount)
	assert.Equal(t, BackendFile, cfg.Cache.Backend)
}

func TestLoadFile(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.toml"))
	require.NoError(t, err)

	assert.Equal(t, "data/frameworks.csv", cfg.Dataset.Source)
	assert.Equal(t, "complexity", cfg.Layout.XAxis)
	assert.Equal(t, 0.0, cfg.Layout.JitterAmount, "explicit zero overrides the default")
	assert.Equal(t, 8.0, cfg.Layout.Radius, "unset keys keep defaults")
	assert.Equal(t, "dark", cfg.Render.Theme)
	assert.Equal(t, []string{"svg", "png"}, cfg.Render.Formats)
	assert.True(t, cfg.Render.Popups)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, DefaultRedisPrefix, cfg.Cache.RedisPrefix)
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err, "missing default file is not an error")
	assert.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "agentscape"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "agentscape", "config.toml"), []byte("[log]\nlevel = \"debug\"\n"), 0o644))

	assert.Equal(t, filepath.Join(dir, "agentscape", "config.toml"), DefaultPath())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantMsg string
	}{
		{"syntax", "[layout\n", "parse config"},
		{"unknown key", "[layout]\nx_axsi = \"complexity\"\n", "unknown keys: layout.x_axsi"},
		{"bad axis", "[layout]\nx_axis = \"stars\"\n", "layout.x_axis"},
		{"jitter too large", "[layout]\njitter_amount = 0.9\n", "jitter_amount"},
		{"negative radius", "[layout]\nradius = -1.0\n", "radius"},
		{"bad theme", "[render]\ntheme = \"neon\"\n", "render.theme"},
		{"margin too wide", "[render]\nwidth = 100.0\nmargin = 60.0\n", "margin"},
		{"bad format", "[render]\nformats = [\"gif\"]\n", "gif"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", "redis_addr"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache.backend"},
		{"bad log level", "[log]\nlevel = \"trace\"\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
