// Package cli implements the agentscape command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/agentscape/pkg/buildinfo"
	"github.com/matzehuels/agentscape/pkg/cache"
	"github.com/matzehuels/agentscape/pkg/config"
	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "agentscape"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs; flags override it.
	Config config.Config

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Agentscape plots AI agent frameworks by code level and complexity",
		Long: `Agentscape loads a dataset of AI agent frameworks and places each one on a
two-dimensional scatter plot. Frameworks sharing a position are nudged apart
deterministically; every point can be inspected by pointing at it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	// Registered before command lookup so "--version --config x" does not
	// take --config as the value of an unknown flag.
	root.InitDefaultVersionFlag()
	root.InitDefaultHelpFlag()

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.hitCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level unless the
// logger was already raised to debug by --verbose.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.Logger.GetLevel() != log.DebugLevel {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.Logger.SetLevel(level)
		}
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	return nil
}

// errOut is where spinners draw; it is the logger's writer.
func (c *CLI) errOut() io.Writer {
	if c.out == nil {
		return io.Discard
	}
	return c.out
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, keyer, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, cache.Keyer, error) {
	cc := c.Config.Cache
	if noCache || cc.Backend == config.BackendNone {
		return cache.NewNullCache(), nil, nil
	}
	if cc.Backend == config.BackendRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   cc.RedisPrefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, nil, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil, nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache %s: %w", dir, err)
	}
	return fc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), "v1:"), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the user cache dir
// (~/.cache/agentscape on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// optionFlags binds the layout and render flags shared by several commands.
// Unset flags take their value from the config file.
type optionFlags struct {
	opts    pipeline.Options
	jitter  float64
	formats string
}

func (f *optionFlags) bindLayout(fs *pflag.FlagSet) {
	fs.StringVar(&f.opts.XAxis, "x", "", "x axis: code_level, complexity, learning_curve")
	fs.StringVar(&f.opts.YAxis, "y", "", "y axis: code_level, complexity, learning_curve")
	fs.StringVarP(&f.opts.Category, "category", "c", "", "only plot this category (all for every category)")
	fs.StringVarP(&f.opts.Query, "query", "q", "", "only plot frameworks whose name or description contains this")
	fs.Float64Var(&f.jitter, "jitter", 0, "displacement amount for overlapping points (0 disables)")
	fs.Float64Var(&f.opts.Radius, "radius", 0, "point and hit radius in pixels")
	fs.Float64Var(&f.opts.Width, "width", 0, "canvas width")
	fs.Float64Var(&f.opts.Height, "height", 0, "canvas height")
	fs.Float64Var(&f.opts.Margin, "margin", 0, "canvas margin")
	fs.Float64Var(&f.opts.Zoom, "zoom", 1, "zoom factor")
	fs.Float64Var(&f.opts.PanX, "pan-x", 0, "horizontal pan in pixels")
	fs.Float64Var(&f.opts.PanY, "pan-y", 0, "vertical pan in pixels")
	fs.StringVarP(&f.opts.VizType, "type", "t", pipeline.DefaultVizType, "visualization type: scatter (default), nodelink")
	fs.StringVar(&f.opts.Theme, "theme", "", "color theme: light, dark")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached datasets and layouts")
}

func (f *optionFlags) bindRender(fs *pflag.FlagSet) {
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	fs.BoolVar(&f.opts.Popups, "popups", false, "show hover popups")
	fs.BoolVar(&f.opts.Details, "details", false, "show a detail panel on click (attribute values in nodelink labels)")
	fs.BoolVar(&f.opts.Labels, "labels", false, "print names next to points")
	fs.BoolVar(&f.opts.Legend, "legend", true, "draw the category legend")
	fs.BoolVar(&f.opts.Logos, "logos", false, "embed framework logos")
	fs.BoolVar(&f.opts.Interactive, "interactive", true, "include the wheel zoom and drag pan script")
	if fs.Lookup("theme") == nil {
		fs.StringVar(&f.opts.Theme, "theme", "", "color theme: light, dark")
	}
}

// resolve merges config values under the flags that were not set.
func (f *optionFlags) resolve(fs *pflag.FlagSet, cfg config.Config) pipeline.Options {
	opts := f.opts
	unset := func(name string) bool {
		fl := fs.Lookup(name)
		return fl != nil && !fl.Changed
	}

	if unset("x") || opts.XAxis == "" {
		opts.XAxis = cfg.Layout.XAxis
	}
	if unset("y") || opts.YAxis == "" {
		opts.YAxis = cfg.Layout.YAxis
	}
	jitter := f.jitter
	if unset("jitter") {
		jitter = cfg.Layout.JitterAmount
	}
	opts.JitterAmount = &jitter
	if unset("radius") {
		opts.Radius = cfg.Layout.Radius
	}
	if unset("width") {
		opts.Width = cfg.Render.Width
	}
	if unset("height") {
		opts.Height = cfg.Render.Height
	}
	if unset("margin") {
		opts.Margin = cfg.Render.Margin
	}
	if unset("theme") || opts.Theme == "" {
		opts.Theme = cfg.Render.Theme
	}
	if unset("popups") {
		opts.Popups = cfg.Render.Popups
	}
	if unset("details") {
		opts.Details = cfg.Render.Details
	}
	if unset("labels") {
		opts.Labels = cfg.Render.Labels
	}
	if unset("logos") {
		opts.Logos = cfg.Render.Logos
	}

	opts.Formats = parseFormats(f.formats)
	if unset("format") && len(cfg.Render.Formats) > 0 {
		opts.Formats = append([]string(nil), cfg.Render.Formats...)
	}
	if opts.Category == dataset.CategoryAll {
		opts.Category = ""
	}
	return opts
}

// source returns args[0], falling back to the configured dataset.
func (c *CLI) source(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if c.Config.Dataset.Source != "" {
		return c.Config.Dataset.Source, nil
	}
	return "", fmt.Errorf("no dataset given and none configured in [dataset] source")
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
