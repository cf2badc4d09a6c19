package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render/logos"
	"github.com/matzehuels/agentscape/pkg/render/nodelink"
	"github.com/matzehuels/agentscape/pkg/render/sink"
)

// RenderFromLayout renders a layout in every requested format. Theme falls
// back to the theme stored in the layout. src may be nil; it is consulted
// only when opts.Logos is set.
func RenderFromLayout(ctx context.Context, l plot.Layout, opts Options, src sink.LogoSource) (map[string][]byte, error) {
	opts = applyLayoutMetadata(opts, l)
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}
	if l.IsNodelink() {
		return RenderNodelink(ctx, l, opts)
	}
	return renderScatter(l, opts, src)
}

// RenderNodelink renders a nodelink layout with Graphviz.
func RenderNodelink(ctx context.Context, l plot.Layout, opts Options) (map[string][]byte, error) {
	dot, err := nodelink.Parse(l)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			data, err = plot.MarshalLayout(l)
		default:
			return nil, fmt.Errorf("unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderScatter(l plot.Layout, opts Options, src sink.LogoSource) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts, src)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(DefaultPNGScale))
		case FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(l)
		default:
			return nil, fmt.Errorf("unsupported scatter format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// applyLayoutMetadata fills options the layout already knows about.
func applyLayoutMetadata(opts Options, l plot.Layout) Options {
	if opts.Theme == "" && l.Theme != "" {
		opts.Theme = l.Theme
	}
	opts.VizType = l.VizType
	return opts
}

func buildSVGOptions(opts Options, src sink.LogoSource) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithTheme(opts.ThemeStyle())}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	if opts.Legend {
		svgOpts = append(svgOpts, sink.WithLegend())
	}
	if opts.Popups {
		svgOpts = append(svgOpts, sink.WithPopups())
	}
	if opts.Details {
		svgOpts = append(svgOpts, sink.WithDetails())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteractive())
	}
	if opts.Logos && src != nil {
		svgOpts = append(svgOpts, sink.WithLogos(src))
	}
	return svgOpts
}

// RenderFromLayoutData renders serialized layout data.
func RenderFromLayoutData(ctx context.Context, data []byte, opts Options, src sink.LogoSource) (map[string][]byte, error) {
	l, err := plot.UnmarshalLayout(data)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, l, opts, src)
}

// LogoItems lists the logos referenced by a scatter layout.
func LogoItems(l plot.Layout) []logos.Item {
	var items []logos.Item
	for _, p := range l.Points {
		if p.Meta != nil && p.Meta.LogoURL != "" {
			items = append(items, logos.Item{Name: p.Name, URL: p.Meta.LogoURL})
		}
	}
	return items
}
