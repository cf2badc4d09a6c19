package plot

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/matzehuels/agentscape/pkg/scatter"
	"github.com/matzehuels/agentscape/pkg/scatter/hit"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

// Visualization types.
const (
	VizTypeScatter  = "scatter"
	VizTypeNodelink = "nodelink"
)

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// idSpace namespaces layout IDs.
var idSpace = uuid.MustParse("6f1c3c1e-8a3b-4bb5-9a55-2f4a0c7d9e10")

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the serialization format for all visualizations.
//
//	Scatter ("scatter"):
//	  - Points: positioned frameworks with pixel centers
//	  - XAxis/YAxis, JitterAmount, Radius, Zoom, PanX/PanY
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string grouping frameworks by category
//	  - Engine: Graphviz layout engine (e.g., "dot")
type Layout struct {
	ID string `json:"id" bson:"id"`

	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Common dimensions and style
	Width      float64  `json:"width" bson:"width"`
	Height     float64  `json:"height" bson:"height"`
	Theme      string   `json:"theme,omitempty" bson:"theme,omitempty"`
	Categories []string `json:"categories,omitempty" bson:"categories,omitempty"`

	// Scatter-specific
	Margin       float64         `json:"margin,omitempty" bson:"margin,omitempty"`
	Radius       float64         `json:"radius,omitempty" bson:"radius,omitempty"`
	XAxis        scatter.AxisKey `json:"x_axis,omitempty" bson:"x_axis,omitempty"`
	YAxis        scatter.AxisKey `json:"y_axis,omitempty" bson:"y_axis,omitempty"`
	JitterAmount float64         `json:"jitter_amount,omitempty" bson:"jitter_amount,omitempty"`
	Zoom         float64         `json:"zoom,omitempty" bson:"zoom,omitempty"`
	PanX         float64         `json:"pan_x,omitempty" bson:"pan_x,omitempty"`
	PanY         float64         `json:"pan_y,omitempty" bson:"pan_y,omitempty"`
	Points       []Point         `json:"points,omitempty" bson:"points,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsScatter returns true if this is a scatter layout.
func (l *Layout) IsScatter() bool { return l.VizType == VizTypeScatter }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Axes returns the attribute pair the layout was computed for.
func (l *Layout) Axes() scatter.AxisSelection {
	return scatter.AxisSelection{X: l.XAxis, Y: l.YAxis}
}

// View returns the viewport the pixel centers were projected with.
func (l *Layout) View() viewport.View {
	v := viewport.New(l.Width, l.Height, l.Margin)
	if l.Zoom != 0 {
		v.Zoom = l.Zoom
	}
	v.PanX, v.PanY = l.PanX, l.PanY
	return v
}

// WithView returns a copy of l whose pixel centers are reprojected through
// v. Plot positions are unchanged.
func (l Layout) WithView(v viewport.View) Layout {
	out := l
	out.Width, out.Height, out.Margin = v.Width, v.Height, v.Margin
	out.Zoom, out.PanX, out.PanY = v.Zoom, v.PanX, v.PanY
	out.Points = make([]Point, len(l.Points))
	for i, p := range l.Points {
		p.PX, p.PY = v.Project(p.PlotX, p.PlotY)
		out.Points[i] = p
	}
	return out
}

// Targets returns the hit-test targets in draw order.
func (l *Layout) Targets() []hit.Target {
	targets := make([]hit.Target, len(l.Points))
	for i, p := range l.Points {
		targets[i] = hit.Target{Name: p.Name, X: p.PX, Y: p.PY}
	}
	return targets
}

// Point returns the point with the given name.
func (l *Layout) Point(name string) (Point, bool) {
	for _, p := range l.Points {
		if p.Name == name {
			return p, true
		}
	}
	return Point{}, false
}

// HitTest returns the first point containing the pixel (px, py).
func (l *Layout) HitTest(px, py float64) (Point, bool) {
	name, ok := hit.Test(px, py, l.Targets(), l.Radius)
	if !ok {
		return Point{}, false
	}
	return l.Point(name)
}

// =============================================================================
// Point - Scatter Visualization Element
// =============================================================================

// Point is a positioned framework.
type Point struct {
	Name     string `json:"name" bson:"name"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`

	// Plot space, [0, 1]
	RawX     float64 `json:"raw_x" bson:"raw_x"`
	RawY     float64 `json:"raw_y" bson:"raw_y"`
	PlotX    float64 `json:"plot_x" bson:"plot_x"`
	PlotY    float64 `json:"plot_y" bson:"plot_y"`
	MissingX bool    `json:"missing_x,omitempty" bson:"missing_x,omitempty"`
	MissingY bool    `json:"missing_y,omitempty" bson:"missing_y,omitempty"`

	// Screen space
	PX float64 `json:"px" bson:"px"`
	PY float64 `json:"py" bson:"py"`

	Meta *PointMeta `json:"meta,omitempty" bson:"meta,omitempty"`
}

// PointMeta is the display metadata shown in popups and detail panels.
type PointMeta struct {
	Description    string `json:"description,omitempty" bson:"description,omitempty"`
	URL            string `json:"url,omitempty" bson:"url,omitempty"`
	LogoURL        string `json:"logo_url,omitempty" bson:"logo_url,omitempty"`
	XJustification string `json:"x_justification,omitempty" bson:"x_justification,omitempty"`
	YJustification string `json:"y_justification,omitempty" bson:"y_justification,omitempty"`
}

// Displaced reports whether the layout engine moved the point.
func (p Point) Displaced() bool { return p.PlotX != p.RawX || p.PlotY != p.RawY }

// Positioned converts back to the layout engine's type.
func (p Point) Positioned() scatter.PositionedPoint {
	return scatter.PositionedPoint{
		Name: p.Name,
		RawX: p.RawX, RawY: p.RawY,
		PlotX: p.PlotX, PlotY: p.PlotY,
		MissingX: p.MissingX, MissingY: p.MissingY,
	}
}

// Description returns the description or "".
func (p Point) Description() string {
	if p.Meta == nil {
		return ""
	}
	return p.Meta.Description
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.VizType == "" {
		l.VizType = VizTypeScatter
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the fields required by the viz type.
func (l *Layout) Validate() error {
	switch l.VizType {
	case VizTypeScatter:
		if err := l.Axes().Validate(); err != nil {
			return fmt.Errorf("scatter layout: %w", err)
		}
		if err := l.View().Validate(); err != nil {
			return fmt.Errorf("scatter layout: %w", err)
		}
		if l.Radius < 0 {
			return fmt.Errorf("scatter layout: negative radius %g", l.Radius)
		}
	case VizTypeNodelink:
		if l.DOT == "" {
			return fmt.Errorf("nodelink layout must contain DOT string")
		}
	default:
		return fmt.Errorf("unknown viz type %q", l.VizType)
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// contentID derives a stable ID from the layout without its ID field.
func contentID(l Layout) string {
	l.ID = ""
	data, err := json.Marshal(l)
	if err != nil {
		return uuid.NewString()
	}
	return uuid.NewSHA1(idSpace, data).String()
}
