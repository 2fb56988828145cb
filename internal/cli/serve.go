package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhersch/treeline/internal/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render API over HTTP",
		Long: `Serve the layout and render API over HTTP.

Endpoints:
  GET  /healthz      liveness probe with version
  POST /api/layout   compute a positioned frame for a document
  POST /api/render   render a document to svg, json, dot, or png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, e.g. :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if addr == "" {
		addr = c.Config.Server.Addr
	}

	printInfo("Listening on %s", addr)
	return server.New(addr, runner, c.Logger).Run(ctx)
}
