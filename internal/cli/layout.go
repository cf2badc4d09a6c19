package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agentscape/pkg/pipeline"
	"github.com/matzehuels/agentscape/pkg/plot"
)

// layoutCommand creates the layout command for computing plot layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [dataset]",
		Short: "Compute a plot layout from a framework dataset",
		Long: `Compute a plot layout from a framework dataset.

The dataset is a CSV, JSON or YAML file, an http(s) URL, or a mongodb:// URI.
Without an argument the configured [dataset] source is used. The output is a
layout.json file (same format as 'render -f json') that 'visualize' and 'hit'
read.

Frameworks with identical coordinates are displaced deterministically; the
same dataset and options always produce the same layout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := c.source(args)
			if err != nil {
				return err
			}
			opts := flags.resolve(cmd.Flags(), c.Config)
			opts.Source = source
			return c.runLayout(cmd, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <dataset>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd.Flags())

	return cmd
}

// runLayout loads the dataset, computes the layout, and writes output.
func (c *CLI) runLayout(cmd *cobra.Command, opts pipeline.Options, output string, noCache bool) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	l, cacheHit, err := c.computeLayout(ctx, opts, noCache)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", opts.Source) + ".layout.json"
	}
	if err := plot.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess(w, "Layout complete")
	printFile(w, outputPath)
	printStats(w, len(l.Points), countDisplaced(l), cacheHit)
	printNewline(w)
	printNextStep(w, "Render", appName+" visualize "+outputPath)
	return nil
}

// computeLayout runs the load and layout stages behind a spinner.
func (c *CLI) computeLayout(ctx context.Context, opts pipeline.Options, noCache bool) (plot.Layout, bool, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return plot.Layout{}, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	records, err := runner.Load(ctx, opts)
	if err != nil {
		return plot.Layout{}, false, fmt.Errorf("load %s: %w", opts.Source, err)
	}
	records = runner.Filter(records, opts)

	spinner := newSpinner(ctx, c.errOut(), fmt.Sprintf("Computing %s layout...", opts.VizType))
	spinner.Start()
	l, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, records, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return plot.Layout{}, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return plot.Layout{}, false, ctx.Err()
	}
	prog.done(fmt.Sprintf("Plotted %d frameworks", len(records)))
	return l, cacheHit, nil
}
