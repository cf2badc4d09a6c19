// Package pipeline provides the load → layout → render pipeline shared by
// the CLI, the terminal explorer and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read records from a file, an http(s) URL or a MongoDB
//     collection, validate them and make names unique
//  2. Layout: filter, run the layout engine and project to pixels
//  3. Render: generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline,
// and each consults the runner's cache first.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:  "frameworks.csv",
//	    Formats: []string{"svg"},
//	    Popups:  true,
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	records, err := runner.Load(ctx, opts)
//	layout, err := runner.GenerateLayout(ctx, runner.Filter(records, opts), opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/agentscape/pkg/cache"
	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/errors"
	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render/styles"
	"github.com/matzehuels/agentscape/pkg/scatter"
	"github.com/matzehuels/agentscape/pkg/scatter/hit"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Explorer
// =============================================================================

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = plot.VizTypeScatter

	// DefaultTheme is the default color theme.
	DefaultTheme = plot.ThemeLight

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	plot.VizTypeScatter:  true,
	plot.VizTypeNodelink: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. It supports JSON
// serialization for API requests.
type Options struct {
	// Load options
	Source  string `json:"source,omitempty"` // path, http(s) URL or mongodb URI
	Refresh bool   `json:"refresh,omitempty"`

	// Filter options
	Category string `json:"category,omitempty"` // "" or "all" disables
	Query    string `json:"query,omitempty"`

	// Layout options
	VizType      string   `json:"viz_type,omitempty"`
	XAxis        string   `json:"x_axis,omitempty"`
	YAxis        string   `json:"y_axis,omitempty"`
	JitterAmount *float64 `json:"jitter_amount,omitempty"` // nil means scatter.DefaultJitterAmount
	Radius       float64  `json:"radius,omitempty"`
	Width        float64  `json:"width,omitempty"`
	Height       float64  `json:"height,omitempty"`
	Margin       float64  `json:"margin,omitempty"`
	Zoom         float64  `json:"zoom,omitempty"`
	PanX         float64  `json:"pan_x,omitempty"`
	PanY         float64  `json:"pan_y,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Theme       string   `json:"theme,omitempty"`
	Popups      bool     `json:"popups,omitempty"`
	Details     bool     `json:"details,omitempty"`
	Labels      bool     `json:"labels,omitempty"`
	Legend      bool     `json:"legend,omitempty"`
	Logos       bool     `json:"logos,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Records are the loaded records after filtering.
	Records []dataset.Record

	// DatasetHash is the content hash of the filtered records.
	DatasetHash string

	Layout    plot.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Loaded     int // records before filtering
	Plotted    int // points in the layout
	Displaced  int // points moved by the layout engine
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether records came from cache
	LayoutHit bool // Whether layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateTheme checks that a theme is valid.
func ValidateTheme(theme string) error {
	if theme != plot.ThemeLight && theme != plot.ThemeDark {
		return errors.New(errors.ErrCodeInvalidTheme, "invalid theme: %q (must be one of: light, dark)", theme)
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType, "invalid viz_type: %q (must be one of: scatter, nodelink)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the source and search options.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source is required")
	}
	if err := errors.ValidateSearchQuery(o.Query); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.XAxis == "" {
		o.XAxis = string(scatter.DefaultAxes.X)
	}
	if o.YAxis == "" {
		o.YAxis = string(scatter.DefaultAxes.Y)
	}
	if o.JitterAmount == nil || math.IsNaN(*o.JitterAmount) || math.IsInf(*o.JitterAmount, 0) {
		a := scatter.DefaultJitterAmount
		o.JitterAmount = &a
	}
	if o.Radius == 0 {
		o.Radius = hit.DefaultRadius
	}
	if o.Width == 0 {
		o.Width = viewport.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = viewport.DefaultHeight
	}
	if o.Margin == 0 {
		o.Margin = viewport.DefaultMargin
	}
	if o.Zoom == 0 {
		o.Zoom = 1
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
// Axis names are normalized to their canonical keys.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	axes, err := o.Axes()
	if err != nil {
		return err
	}
	o.XAxis, o.YAxis = string(axes.X), string(axes.Y)
	if o.Radius < 0 || math.IsNaN(o.Radius) {
		return errors.New(errors.ErrCodeInvalidInput, "radius must not be negative, got %g", o.Radius)
	}
	if *o.JitterAmount > 0.5 {
		return errors.New(errors.ErrCodeInvalidInput, "jitter amount must be at most 0.5, got %g", *o.JitterAmount)
	}
	if err := o.View().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid canvas")
	}
	return ValidateTheme(o.Theme)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Axes parses the axis options.
func (o *Options) Axes() (scatter.AxisSelection, error) {
	x, err := scatter.ParseAxisKey(o.XAxis)
	if err != nil {
		return scatter.AxisSelection{}, errors.Wrap(errors.ErrCodeInvalidAxis, err, "x axis")
	}
	y, err := scatter.ParseAxisKey(o.YAxis)
	if err != nil {
		return scatter.AxisSelection{}, errors.Wrap(errors.ErrCodeInvalidAxis, err, "y axis")
	}
	return scatter.AxisSelection{X: x, Y: y}, nil
}

// View returns the viewport described by the options.
func (o *Options) View() viewport.View {
	v := viewport.New(o.Width, o.Height, o.Margin)
	if o.Zoom != 0 {
		v.Zoom = o.Zoom
	}
	v.PanX, v.PanY = o.PanX, o.PanY
	return v
}

// Filter returns the dataset filter described by the options.
func (o *Options) Filter() dataset.Filter {
	return dataset.Filter{Category: o.Category, Query: o.Query}
}

// Jitter returns the jitter amount, or the default when unset.
func (o *Options) Jitter() float64 {
	if o.JitterAmount == nil {
		return scatter.DefaultJitterAmount
	}
	return *o.JitterAmount
}

// ThemeStyle returns the styles.Theme for the theme option.
func (o *Options) ThemeStyle() styles.Theme {
	t, err := styles.ThemeByName(o.Theme)
	if err != nil {
		return styles.Light
	}
	return t
}

// IsScatter returns true if this is a scatter visualization.
func (o *Options) IsScatter() bool {
	return o.VizType == "" || o.VizType == plot.VizTypeScatter
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == plot.VizTypeNodelink
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{
		VizType:      o.VizType,
		XAxis:        o.XAxis,
		YAxis:        o.YAxis,
		Category:     o.Category,
		Query:        o.Query,
		JitterAmount: o.Jitter(),
		Radius:       o.Radius,
		Width:        o.Width,
		Height:       o.Height,
		Margin:       o.Margin,
		Zoom:         o.Zoom,
		PanX:         o.PanX,
		PanY:         o.PanY,
	}
	if o.IsNodelink() {
		k.Theme, k.Detailed = o.Theme, o.Details
	}
	return k
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:  format,
		Theme:   o.Theme,
		Popups:  o.Popups,
		Details: o.Details,
		Labels:  o.Labels || o.Legend || o.Interactive,
		Logos:   o.Logos,
	}
}

func (o Options) String() string {
	return fmt.Sprintf("%s %s×%s", o.VizType, o.XAxis, o.YAxis)
}
