package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render/styles"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

// LogoSource supplies embedded logo images by entity name.
type LogoSource interface {
	DataURI(name string) (string, bool)
}

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme       styles.Theme
	labels      bool
	legend      bool
	popups      bool
	details     bool
	interactive bool
	logos       LogoSource
}

func WithTheme(t styles.Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }
func WithLabels() SVGOption              { return func(r *svgRenderer) { r.labels = true } }
func WithLegend() SVGOption              { return func(r *svgRenderer) { r.legend = true } }
func WithPopups() SVGOption              { return func(r *svgRenderer) { r.popups = true } }
func WithDetails() SVGOption             { return func(r *svgRenderer) { r.details = true } }
func WithInteractive() SVGOption         { return func(r *svgRenderer) { r.interactive = true } }

// WithLogos draws each point's logo over its circle when src has one.
func WithLogos(src LogoSource) SVGOption { return func(r *svgRenderer) { r.logos = src } }

// RenderSVG renders a scatter layout. Without [WithTheme] the layout's own
// theme is used.
func RenderSVG(l plot.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(l, opts...)
	v := l.View()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" font-family="Helvetica, Arial, sans-serif">`+"\n",
		l.Width, l.Height, l.Width, l.Height)
	fmt.Fprintf(&buf, `  <rect class="background" width="100%%" height="100%%" fill="%s"/>`+"\n", r.theme.Background)
	fmt.Fprintf(&buf, `  <defs><clipPath id="plot-area"><rect x="%.1f" y="%.1f" width="%.1f" height="%.1f"/></clipPath></defs>`+"\n",
		v.Margin, v.Margin, v.PlotWidth(), v.PlotHeight())

	buf.WriteString(`  <g id="plot-content" clip-path="url(#plot-area)">` + "\n")
	renderGrid(&buf, &r, v)
	renderPoints(&buf, &r, l)
	buf.WriteString("  </g>\n")

	renderAxes(&buf, &r, l, v)
	if r.legend {
		renderLegend(&buf, &r, l)
	}
	if r.popups {
		renderPopups(&buf, &r, l)
	}
	if r.details {
		renderDetails(&buf, &r, l)
	}
	renderInteraction(&buf, &r, v)

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(l plot.Layout, opts ...SVGOption) svgRenderer {
	theme, err := styles.ThemeByName(l.Theme)
	if err != nil {
		theme = styles.Light
	}
	r := svgRenderer{theme: theme}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// base returns the unzoomed, unpanned projection of a plot position.
func base(v viewport.View, x, y float64) (bx, by float64) {
	v.Reset()
	return v.Project(x, y)
}

func pointID(i int) string { return fmt.Sprintf("p-%d", i) }
