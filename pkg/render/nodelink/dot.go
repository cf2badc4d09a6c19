package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render"
	"github.com/matzehuels/agentscape/pkg/render/styles"
	"github.com/matzehuels/agentscape/pkg/scatter"
)

// Uncategorized groups records without a category.
const Uncategorized = "Uncategorized"

// Options configures category map generation.
type Options struct {
	// Detailed includes attribute values in framework labels.
	// When false, only the name is shown.
	Detailed bool

	// Theme colors the nodes. The zero value means [styles.Light].
	Theme styles.Theme
}

// ToDOT converts records to a Graphviz DOT category map: one cluster per
// category with a hub node linked to each framework in it. Clusters and
// frameworks keep input order.
func ToDOT(records []dataset.Record, opts Options) string {
	theme := opts.Theme
	if theme.Name == "" {
		theme = styles.Light
	}

	groups, order := group(records)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontname=\"Helvetica\", fontsize=14, fontcolor=%q, margin=\"0.2,0.1\"];\n", theme.Text)
	fmt.Fprintf(&buf, "  edge [color=%q, arrowhead=none];\n", theme.Axis)
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.2;\n")

	for i, cat := range order {
		color := styles.Hex(theme.CategoryColor(cat, order))
		if cat == Uncategorized {
			color = styles.Hex(styles.ColorUncategorized)
		}
		hub := "category:" + cat

		buf.WriteString("\n")
		fmt.Fprintf(&buf, "  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", "")
		fmt.Fprintf(&buf, "    style=\"rounded,dashed\";\n    color=%q;\n", theme.Grid)
		fmt.Fprintf(&buf, "    %q [label=%q, shape=ellipse, fillcolor=%q, fontsize=18];\n", hub, cat, color)
		for _, r := range groups[cat] {
			attrs := fmtAttrs(r, fmtLabel(r, opts.Detailed), color)
			fmt.Fprintf(&buf, "    %q [%s];\n", r.Name, strings.Join(attrs, ", "))
		}
		for _, r := range groups[cat] {
			fmt.Fprintf(&buf, "    %q -> %q;\n", hub, r.Name)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func group(records []dataset.Record) (map[string][]dataset.Record, []string) {
	groups := make(map[string][]dataset.Record)
	var order []string
	for _, r := range records {
		cat := r.Category
		if cat == "" {
			cat = Uncategorized
		}
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], r)
	}
	return groups, order
}

func fmtLabel(r dataset.Record, detailed bool) string {
	if !detailed {
		return r.Name
	}
	parts := []string{r.Name}
	for _, key := range scatter.AxisKeys {
		v := r.Value(key)
		val := "unknown"
		if v != nil {
			val = strconv.FormatFloat(*v, 'f', -1, 64)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", key.Title(), val))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(r dataset.Record, label, color string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", color)}
	if r.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", r.Description))
	}
	if r.URL != "" {
		attrs = append(attrs, fmt.Sprintf("URL=%q", r.URL), "target=\"_blank\"")
	}
	return attrs
}

// Export packages a DOT string into the serializable layout format.
// Graphviz computes positions at render time, so the layout carries the
// DOT source and the category list only.
func Export(dot string, records []dataset.Record, width, height float64, theme string) plot.Layout {
	_, order := group(records)
	return plot.NewNodelink(dot, order, width, height, theme)
}

// Parse extracts the DOT string from a serialized nodelink layout.
func Parse(l plot.Layout) (string, error) {
	if l.VizType != "" && l.VizType != plot.VizTypeNodelink {
		return "", fmt.Errorf("invalid viz_type for nodelink layout: %q", l.VizType)
	}
	if l.DOT == "" {
		return "", fmt.Errorf("nodelink layout must contain DOT string")
	}
	return l.DOT, nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one whose
// viewBox starts at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
