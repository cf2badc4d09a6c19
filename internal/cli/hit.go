package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agentscape/pkg/pipeline"
	"github.com/matzehuels/agentscape/pkg/plot"
	"github.com/matzehuels/agentscape/pkg/render/styles"
)

// hitCommand creates the hit command, which reports the framework under a
// pixel.
func (c *CLI) hitCommand() *cobra.Command {
	var (
		px, py  float64
		noCache bool
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "hit [layout.json|dataset] --px X --py Y",
		Short: "Show the framework drawn at a pixel position",
		Long: `Show the framework drawn at a pixel position.

The input is a layout.json file or any dataset 'layout' accepts. Points are
tested in draw order and the first one whose circle contains the pixel wins.
A miss is not an error.

With a layout file, --zoom, --pan-x and --pan-y reproject the stored points
before testing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range []string{"px", "py"} {
				if !cmd.Flags().Changed(name) {
					return fmt.Errorf("--%s is required", name)
				}
			}
			ctx := cmd.Context()
			l, err := c.hitLayout(ctx, cmd, args, &flags, noCache)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			w := cmd.OutOrStdout()
			p, ok := runner.HitTest(ctx, l, px, py)
			if !ok {
				printInfo(w, "no entity at (%g, %g)", px, py)
				return nil
			}
			printPoint(w, l, p)
			return nil
		},
	}

	cmd.Flags().Float64Var(&px, "px", 0, "pixel x coordinate")
	cmd.Flags().Float64Var(&py, "py", 0, "pixel y coordinate")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd.Flags())

	return cmd
}

// hitLayout reads a layout file, or lays out a dataset.
func (c *CLI) hitLayout(ctx context.Context, cmd *cobra.Command, args []string, flags *optionFlags, noCache bool) (plot.Layout, error) {
	source, err := c.source(args)
	if err != nil {
		return plot.Layout{}, err
	}
	opts := flags.resolve(cmd.Flags(), c.Config)
	opts.Source = source

	if pipeline.KindOf(source) == pipeline.SourceFile && strings.HasSuffix(source, ".json") {
		if l, err := plot.ReadLayoutFile(source); err == nil {
			if !l.IsScatter() {
				return plot.Layout{}, fmt.Errorf("%s is a %s layout; hit testing needs a scatter layout", source, l.VizType)
			}
			v := l.View()
			fs := cmd.Flags()
			if fs.Changed("zoom") {
				v.Zoom = opts.Zoom
			}
			if fs.Changed("pan-x") {
				v.PanX = opts.PanX
			}
			if fs.Changed("pan-y") {
				v.PanY = opts.PanY
			}
			return l.WithView(v), nil
		}
	}

	opts.VizType = pipeline.DefaultVizType
	l, _, err := c.computeLayout(ctx, opts, noCache)
	return l, err
}

// pointRows returns the labeled attributes of p shown by hit and explore.
func pointRows(l plot.Layout, p plot.Point) [][2]string {
	rows := [][2]string{
		{l.XAxis.Title(), styles.FormatValue(p.RawX, p.MissingX)},
		{l.YAxis.Title(), styles.FormatValue(p.RawY, p.MissingY)},
	}
	if p.Category != "" {
		rows = append([][2]string{{"Category", p.Category}}, rows...)
	}
	if p.Displaced() {
		rows = append(rows, [2]string{"Plotted at", fmt.Sprintf("%.3f, %.3f", p.PlotX, p.PlotY)})
	}
	if m := p.Meta; m != nil {
		if m.Description != "" {
			rows = append(rows, [2]string{"Description", m.Description})
		}
		if m.XJustification != "" {
			rows = append(rows, [2]string{l.XAxis.Title() + " why", m.XJustification})
		}
		if m.YJustification != "" {
			rows = append(rows, [2]string{l.YAxis.Title() + " why", m.YJustification})
		}
		if m.URL != "" {
			rows = append(rows, [2]string{"URL", m.URL})
		}
	}
	return rows
}

func printPoint(w io.Writer, l plot.Layout, p plot.Point) {
	fmt.Fprintln(w, StyleTitle.Render(p.Name))
	for _, row := range pointRows(l, p) {
		printKeyValue(w, row[0], row[1])
	}
}
