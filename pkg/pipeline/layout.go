package pipeline

import (
	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render/nodelink"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout builds a serializable layout for any visualization type.
// Records are expected to be validated, de-duplicated and filtered.
//
// Scatter layouts hold projected points; nodelink layouts hold the DOT
// source of the category graph.
func GenerateLayout(records []dataset.Record, opts Options) (plot.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return plot.Layout{}, err
	}
	if opts.IsNodelink() {
		return generateNodelinkLayout(records, opts), nil
	}
	return generateScatterLayout(records, opts)
}

func generateScatterLayout(records []dataset.Record, opts Options) (plot.Layout, error) {
	axes, err := opts.Axes()
	if err != nil {
		return plot.Layout{}, err
	}
	return plot.Build(records, plot.Options{
		Axes:         axes,
		JitterAmount: opts.Jitter(),
		Radius:       opts.Radius,
		View:         opts.View(),
		Theme:        opts.Theme,
	})
}

// generateNodelinkLayout colors nodes with the theme at layout time, so a
// nodelink layout keeps its theme when re-rendered.
func generateNodelinkLayout(records []dataset.Record, opts Options) plot.Layout {
	dot := nodelink.ToDOT(records, nodelink.Options{Detailed: opts.Details, Theme: opts.ThemeStyle()})
	return nodelink.Export(dot, records, opts.Width, opts.Height, opts.Theme)
}
