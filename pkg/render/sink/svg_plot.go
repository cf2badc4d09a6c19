package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render/styles"
	"github.com/matzehuels/agentscape/pkg/scatter/viewport"
)

const (
	gridSteps  = 10
	labelSize  = 11.0
	tickSize   = 11.0
	titleSize  = 13.0
	legendSize = 12.0
)

func renderGrid(buf *bytes.Buffer, r *svgRenderer, v viewport.View) {
	buf.WriteString(`    <g class="grid">` + "\n")
	for i := 0; i <= gridSteps; i++ {
		t := float64(i) / gridSteps
		bx, _ := base(v, t, 0)
		x, _ := v.Project(t, 0)
		fmt.Fprintf(buf, `      <line x1="%.1f" y1="0" x2="%.1f" y2="%.1f" stroke="%s" vector-effect="non-scaling-stroke" data-bx="%.2f" data-xa="x1 x2"/>`+"\n",
			x, x, v.Height, r.theme.Grid, bx)
		_, by := base(v, 0, t)
		_, y := v.Project(0, t)
		fmt.Fprintf(buf, `      <line x1="0" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" vector-effect="non-scaling-stroke" data-by="%.2f" data-ya="y1 y2"/>`+"\n",
			y, v.Width, y, r.theme.Grid, by)
	}
	buf.WriteString("    </g>\n")
}

// renderPoints draws points in reverse layout order so the first point
// containing a pixel is topmost and receives the click, as in plot.HitTest.
func renderPoints(buf *bytes.Buffer, r *svgRenderer, l plot.Layout) {
	v := l.View()
	for i := len(l.Points) - 1; i >= 0; i-- {
		p := l.Points[i]
		bx, by := base(v, p.PlotX, p.PlotY)
		fill := r.theme.CategoryColor(p.Category, l.Categories)
		fmt.Fprintf(buf, `    <g class="point" id="%s" data-name="%s">`, pointID(i), styles.EscapeXML(p.Name))
		fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" data-bx="%.2f" data-by="%.2f" data-xa="cx" data-ya="cy"><title>%s</title></circle>`,
			p.PX, p.PY, l.Radius, fill, r.theme.Stroke, bx, by, styles.EscapeXML(p.Name))

		if r.logos != nil {
			if uri, ok := r.logos.DataURI(p.Name); ok {
				fmt.Fprintf(buf, `<image href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid meet" pointer-events="none" data-bx="%.2f" data-by="%.2f" data-ox="%.1f" data-oy="%.1f" data-xa="x" data-ya="y"/>`,
					styles.EscapeXML(uri), p.PX-l.Radius, p.PY-l.Radius, 2*l.Radius, 2*l.Radius, bx, by, -l.Radius, -l.Radius)
			}
		}
		if r.labels {
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f" fill="%s" pointer-events="none" data-bx="%.2f" data-by="%.2f" data-ox="%.1f" data-oy="4" data-xa="x" data-ya="y">%s</text>`,
				p.PX+l.Radius+3, p.PY+4, labelSize, r.theme.Text, bx, by, l.Radius+3, styles.EscapeXML(p.Name))
		}
		buf.WriteString("</g>\n")
	}
}

func renderAxes(buf *bytes.Buffer, r *svgRenderer, l plot.Layout, v viewport.View) {
	left, top := v.Margin, v.Margin
	right, bottom := v.Width-v.Margin, v.Height-v.Margin

	buf.WriteString(`  <g class="axes">` + "\n")
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n", left, bottom, right, bottom, r.theme.Axis)
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n", left, top, left, bottom, r.theme.Axis)

	// Tick labels follow the stored zoom and pan; those outside the plot
	// area are skipped.
	for i := 0; i <= gridSteps; i += 2 {
		t := float64(i) / gridSteps
		label := strconv.FormatFloat(t, 'f', 1, 64)
		if x, _ := v.Project(t, 0); x >= left-0.5 && x <= right+0.5 {
			fmt.Fprintf(buf, `    <text class="tick" x="%.1f" y="%.1f" font-size="%.0f" fill="%s" text-anchor="middle">%s</text>`+"\n",
				x, bottom+16, tickSize, r.theme.MutedText, label)
		}
		if _, y := v.Project(0, t); y >= top-0.5 && y <= bottom+0.5 {
			fmt.Fprintf(buf, `    <text class="tick" x="%.1f" y="%.1f" font-size="%.0f" fill="%s" text-anchor="end">%s</text>`+"\n",
				left-8, y+4, tickSize, r.theme.MutedText, label)
		}
	}

	cx, cy := (left+right)/2, (top+bottom)/2
	fmt.Fprintf(buf, `    <text class="axis-title" x="%.1f" y="%.1f" font-size="%.0f" fill="%s" text-anchor="middle">%s</text>`+"\n",
		cx, v.Height-12, titleSize, r.theme.Text, styles.EscapeXML(l.XAxis.Label()))
	fmt.Fprintf(buf, `    <text class="axis-title" x="%.1f" y="%.1f" font-size="%.0f" fill="%s" text-anchor="middle" transform="rotate(-90 %.1f %.1f)">%s</text>`+"\n",
		18.0, cy, titleSize, r.theme.Text, 18.0, cy, styles.EscapeXML(l.YAxis.Label()))
	buf.WriteString("  </g>\n")
}

func renderLegend(buf *bytes.Buffer, r *svgRenderer, l plot.Layout) {
	if len(l.Categories) == 0 {
		return
	}
	x, y := l.Margin, l.Margin/2
	buf.WriteString(`  <g class="legend">` + "\n")
	for _, c := range l.Categories {
		fmt.Fprintf(buf, `    <circle cx="%.1f" cy="%.1f" r="6" fill="%s"/>`, x+6, y, r.theme.CategoryColor(c, l.Categories))
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-size="%.0f" fill="%s">%s</text>`+"\n",
			x+16, y+4, legendSize, r.theme.Text, styles.EscapeXML(c))
		x += 16 + styles.TextWidth(c, legendSize) + 20
	}
	buf.WriteString("  </g>\n")
}
