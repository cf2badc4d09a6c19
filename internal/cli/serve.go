package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/agentscape/internal/server"
	"github.com/matzehuels/agentscape/pkg/config"
	"github.com/matzehuels/agentscape/pkg/observability/metrics"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		withMetrics bool
		noCache bool
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "serve [dataset]",
		Short: "Serve plots, layouts and hit tests over HTTP",
		Long: `Serve plots, layouts and hit tests over HTTP.

Endpoints:
  GET /healthz                   liveness and version
  GET /metrics                   Prometheus metrics (unless disabled)
  GET /api/entities              records, filtered by ?category= and ?q=
  GET /api/entities/{name}       one record
  GET /api/layout                layout JSON
  GET /api/plot.{svg,png,pdf,json}
  GET /api/hit?px=&py=           framework at a pixel, 404 on a miss
  GET /api/categories.svg        nodelink diagram

Layout and render flags set the defaults; query parameters of the same name
override them per request.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := c.source(args)
			if err != nil {
				return err
			}
			defaults := flags.resolve(cmd.Flags(), c.Config)
			defaults.Source = source

			cfg := server.Config{
				Addr:        c.Config.Server.Addr,
				ReadTimeout: c.Config.Server.ReadTimeout,
				Defaults:    defaults,
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if !cmd.Flags().Changed("metrics") {
				withMetrics = c.Config.Server.Metrics
			}
			if withMetrics {
				cfg.Metrics = newMetrics()
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printSuccess(cmd.OutOrStdout(), "Serving %s on http://%s", source, cfg.Addr)
			return server.New(runner, cfg, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultServerAddr+")")
	cmd.Flags().BoolVar(&withMetrics, "metrics", true, "serve Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd.Flags())
	flags.bindRender(cmd.Flags())

	return cmd
}

func newMetrics() *metrics.Registry {
	reg := metrics.New(nil)
	reg.Register()
	return reg
}
