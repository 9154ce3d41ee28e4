package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scynet/scynet/internal/api"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		origin  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP",
		Long: `Serve the pipeline over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/collapse   reaction network JSON
  POST /v1/annotate   {"network": ..., "flux": "<tsv>"}
  POST /v1/filter     {"network": ..., "toggle_cross_fed": true, ...}
  POST /v1/layout     community network JSON (?org_size=&met_size=)
  POST /v1/run        {"network": ..., "flux": "<tsv>", options...}
  GET  /v1/runs/{id}

The [server] and [cache] sections of the config file apply; a redis cache
lets several instances share results.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, origin, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&origin, "cors-origin", "", "allowed CORS origin (default: CORS disabled)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, origin string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	cfg := c.Config.Server
	srv := api.New(api.Options{
		Runner:        runner,
		Defaults:      c.Config.PipelineOptions(),
		MaxBodyBytes:  cfg.MaxBodyBytes,
		AllowedOrigin: origin,
		ReadTimeout:   cfg.ReadTimeout.Duration,
		WriteTimeout:  cfg.WriteTimeout.Duration,
		Logger:        c.Logger,
	})
	printInfo("Listening on %s (cache: %s)", addr, c.Config.Cache.Backend)
	return srv.ListenAndServe(ctx, addr)
}
