package plot

import (
	"fmt"

	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/scatter"
	"github.com/matzehuels/agentscape/pkg/scatter/hit"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

// Options configures [Build].
type Options struct {
	Axes scatter.AxisSelection

	// JitterAmount is passed to the layout engine as is; 0 disables
	// displacement.
	JitterAmount float64

	// Radius is the point radius in pixels. 0 means [hit.DefaultRadius].
	Radius float64

	// View is the projection. A zero View means an 800x600 canvas with a
	// 60 pixel margin.
	View viewport.View

	Theme string
}

// Build lays out records and projects every point. Records are expected to
// have unique names (see [dataset.UniqueNames]).
func Build(records []dataset.Record, opts Options) (Layout, error) {
	if err := opts.Axes.Validate(); err != nil {
		return Layout{}, err
	}
	v := opts.View
	if v.Width == 0 && v.Height == 0 {
		v = viewport.New(viewport.DefaultWidth, viewport.DefaultHeight, viewport.DefaultMargin)
	}
	if err := v.Validate(); err != nil {
		return Layout{}, err
	}
	radius := opts.Radius
	if radius == 0 {
		radius = hit.DefaultRadius
	}
	if radius < 0 {
		return Layout{}, fmt.Errorf("radius must not be negative, got %g", radius)
	}
	theme := opts.Theme
	if theme == "" {
		theme = ThemeLight
	}

	positioned := scatter.ComputeLayout(dataset.Entities(records), opts.Axes, scatter.WithJitterAmount(opts.JitterAmount))

	points := make([]Point, len(records))
	for i, r := range records {
		pp := positioned[i]
		p := Point{
			Name:     pp.Name,
			Category: r.Category,
			RawX:     pp.RawX,
			RawY:     pp.RawY,
			PlotX:    pp.PlotX,
			PlotY:    pp.PlotY,
			MissingX: pp.MissingX,
			MissingY: pp.MissingY,
		}
		p.PX, p.PY = v.Project(pp.PlotX, pp.PlotY)
		if meta := metaOf(r, opts.Axes); meta != (PointMeta{}) {
			p.Meta = &meta
		}
		points[i] = p
	}

	l := Layout{
		VizType:      VizTypeScatter,
		Width:        v.Width,
		Height:       v.Height,
		Margin:       v.Margin,
		Theme:        theme,
		Categories:   dataset.Categories(records),
		Radius:       radius,
		XAxis:        opts.Axes.X,
		YAxis:        opts.Axes.Y,
		JitterAmount: opts.JitterAmount,
		Zoom:         v.Zoom,
		PanX:         v.PanX,
		PanY:         v.PanY,
		Points:       points,
	}
	l.ID = contentID(l)
	return l, nil
}

// NewNodelink wraps a DOT document in a layout.
func NewNodelink(dot string, categories []string, width, height float64, theme string) Layout {
	l := Layout{
		VizType:    VizTypeNodelink,
		Width:      width,
		Height:     height,
		Theme:      theme,
		Categories: categories,
		DOT:        dot,
		Engine:     "dot",
	}
	l.ID = contentID(l)
	return l
}

func metaOf(r dataset.Record, axes scatter.AxisSelection) PointMeta {
	return PointMeta{
		Description:    r.Description,
		URL:            r.URL,
		LogoURL:        r.LogoURL,
		XJustification: r.Justification(axes.X),
		YJustification: r.Justification(axes.Y),
	}
}
