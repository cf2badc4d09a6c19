package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agentscape/pkg/pipeline"
)

// renderCommand creates the render command, which runs the whole pipeline
// from dataset to artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Load, lay out and render a framework dataset in one step",
		Long: `Load, lay out and render a framework dataset in one step.

This is equivalent to 'layout' followed by 'visualize'. Use -t nodelink for a
Graphviz diagram grouping frameworks by category instead of the scatter plot.

Examples:
  agentscape render frameworks.csv
  agentscape render frameworks.csv -f svg,png --theme dark --labels
  agentscape render https://example.com/frameworks.json --category Orchestration
  agentscape render frameworks.yaml -t nodelink --details`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := c.source(args)
			if err != nil {
				return err
			}
			opts := flags.resolve(cmd.Flags(), c.Config)
			opts.Source = source
			return c.runRender(cmd, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd.Flags())
	flags.bindRender(cmd.Flags())

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, opts pipeline.Options, output string, noCache bool) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinner(ctx, c.errOut(), fmt.Sprintf("Rendering %s...", opts.Source))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	_, err = writeArtifacts(cmd.OutOrStdout(), artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Source,
		output:    output,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
		plotted:   result.Stats.Plotted,
		displaced: result.Stats.Displaced,
	})
	return err
}
