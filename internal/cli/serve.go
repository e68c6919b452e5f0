package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/internal/server"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and rendered grids over HTTP",
		Long: `Serve layouts and rendered grids over HTTP.

The configured sources back GET /api/v1/calendar/{view}/{date}.{format}.
POST /api/v1/layout lays out an event list from the request body and
POST /api/v1/render runs the full pipeline on remote feeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			base := cfg.PipelineOptions()
			base.HiddenCalendars = cfg.HiddenCalendars()

			srv := server.New(runner, base, c.Logger)
			printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(cfg.Server.Addr)))
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config or :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
