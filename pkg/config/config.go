// Package config loads agentscape settings from a TOML file.
//
// Loading starts from [Default] and overlays whatever the file sets, so a
// file only needs to name the values it changes:
//
//	[layout]
//	x_axis = "complexity"
//	jitter_amount = 0.03
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
// Command-line flags override config values; that merge happens in the CLI.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/agentscape/pkg/errors"
	"github.com/matzehuels/agentscape/pkg/scatter"
	"github.com/matzehuels/agentscape/pkg/scatter/hit"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

const (
	DefaultServerAddr  = "127.0.0.1:8080"
	DefaultReadTimeout = 15 * time.Second
	DefaultTheme       = "light"
	DefaultLogLevel    = "info"
	DefaultRedisPrefix = "agentscape:"
)

// Config is the full configuration file.
type Config struct {
	Dataset DatasetConfig `toml:"dataset"`
	Layout  LayoutConfig  `toml:"layout"`
	Render  RenderConfig  `toml:"render"`
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Log     LogConfig     `toml:"log"`
}

// DatasetConfig names the default data source.
type DatasetConfig struct {
	// Source is a file path, http(s) URL or mongodb URI.
	Source string `toml:"source"`
}

// LayoutConfig holds layout engine and hit-test settings.
type LayoutConfig struct {
	XAxis        string  `toml:"x_axis"`
	YAxis        string  `toml:"y_axis"`
	JitterAmount float64 `toml:"jitter_amount"` // 0 disables displacement
	Radius       float64 `toml:"radius"`        // point and hit radius in pixels
}

// RenderConfig holds artifact and viewport settings.
type RenderConfig struct {
	Theme   string   `toml:"theme"`
	Width   float64  `toml:"width"`
	Height  float64  `toml:"height"`
	Margin  float64  `toml:"margin"`
	Formats []string `toml:"formats"`
	Labels  bool     `toml:"labels"`
	Popups  bool     `toml:"popups"`
	Details bool     `toml:"details"`
	Logos   bool     `toml:"logos"`
}

// ServerConfig configures `agentscape serve`.
type ServerConfig struct {
	Addr        string        `toml:"addr"`
	ReadTimeout time.Duration `toml:"read_timeout"`
	Metrics     bool          `toml:"metrics"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"` // file backend; empty means the user cache dir
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// LogConfig sets the log level ("debug", "info", "warn", "error").
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			XAxis:        string(scatter.CodeLevel),
			YAxis:        string(scatter.Complexity),
			JitterAmount: scatter.DefaultJitterAmount,
			Radius:       hit.DefaultRadius,
		},
		Render: RenderConfig{
			Theme:   DefaultTheme,
			Width:   viewport.DefaultWidth,
			Height:  viewport.DefaultHeight,
			Margin:  viewport.DefaultMargin,
			Formats: []string{"svg"},
			Popups:  true,
			Details: true,
		},
		Server: ServerConfig{
			Addr:        DefaultServerAddr,
			ReadTimeout: DefaultReadTimeout,
			Metrics:     true,
		},
		Cache: CacheConfig{
			Backend:     BackendFile,
			RedisPrefix: DefaultRedisPrefix,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/agentscape/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "agentscape", "config.toml")
}

// Load reads path over the defaults and validates the result. An empty path
// loads [DefaultPath], and a missing default file yields [Default]. A path
// given explicitly must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		if stderrors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	if err := cfg.decode(string(data)); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (Config, error) {
	cfg := Default()
	if err := cfg.decode(text); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decode(text string) error {
	md, err := toml.Decode(text, c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	fail := func(format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidConfig, format, args...)
	}

	x, err := scatter.ParseAxisKey(c.Layout.XAxis)
	if err != nil {
		return fail("layout.x_axis: %v", err)
	}
	y, err := scatter.ParseAxisKey(c.Layout.YAxis)
	if err != nil {
		return fail("layout.y_axis: %v", err)
	}
	if err := (scatter.AxisSelection{X: x, Y: y}).Validate(); err != nil {
		return fail("layout: %v", err)
	}
	if !finite(c.Layout.JitterAmount) || c.Layout.JitterAmount < 0 || c.Layout.JitterAmount > 0.5 {
		return fail("layout.jitter_amount must be in [0, 0.5], got %v", c.Layout.JitterAmount)
	}
	if !finite(c.Layout.Radius) || c.Layout.Radius < 0 {
		return fail("layout.radius must be non-negative, got %v", c.Layout.Radius)
	}

	switch c.Render.Theme {
	case "light", "dark":
	default:
		return fail("render.theme must be light or dark, got %q", c.Render.Theme)
	}
	v := viewport.New(c.Render.Width, c.Render.Height, c.Render.Margin)
	if err := v.Validate(); err != nil {
		return fail("render: %v", err)
	}
	for _, f := range c.Render.Formats {
		switch f {
		case "svg", "png", "pdf", "json":
		default:
			return fail("render.formats: unknown format %q", f)
		}
	}

	if c.Server.Addr == "" {
		return fail("server.addr must not be empty")
	}
	if c.Server.ReadTimeout < 0 {
		return fail("server.read_timeout must not be negative")
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return fail("cache.redis_addr is required for the redis backend")
		}
		if c.Cache.RedisPrefix == "" {
			return fail("cache.redis_prefix must not be empty")
		}
	default:
		return fail("cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fail("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// Axes returns the validated layout axes. Call after [Config.Validate].
func (c Config) Axes() scatter.AxisSelection {
	return scatter.AxisSelection{X: scatter.AxisKey(c.Layout.XAxis), Y: scatter.AxisKey(c.Layout.YAxis)}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
