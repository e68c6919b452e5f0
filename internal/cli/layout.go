package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/pkg/config"
	calio "github.com/matzehuels/calgrid/pkg/io"
	"github.com/matzehuels/calgrid/pkg/pipeline"
)

// layoutCommand creates the layout command, which writes the laid-out grid
// as JSON without rendering it.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  gridFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [source...]",
		Short: "Compute event placements and print the grid as JSON",
		Long: `Compute event placements and print the grid as JSON.

Sources are ICS files or feeds (http, https, webcal), JSON/YAML event files
and sqlite:// databases. Without arguments the sources of the config file are
used. Each placement carries its column, the column count of its overlap
group, a pixel top and height and a left offset and width in percent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cfg, flags.options(cmd, cfg, args), flags.noCache, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, cfg *config.Config, opts pipeline.Options, noCache bool, output string) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	start := time.Now()
	spin := startSpinner(ctx, "Loading events...")
	loaded, err := runner.Load(ctx, opts)
	if err != nil {
		spin.Stop()
		return err
	}
	spin.Update("Computing layout...")
	g, hit, _, err := runner.LayoutWithCacheInfo(ctx, loaded, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	logElapsed(c.Logger, start, "placed events", "events", g.EventCount(), "cached", hit)

	if output == "" {
		return calio.WriteGrid(os.Stdout, g)
	}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := calio.WriteGrid(f, g); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	printSuccess("Layout computed")
	printStats(g.EventCount(), g.MaxColumns(), hit)
	printFile(output)
	return nil
}
