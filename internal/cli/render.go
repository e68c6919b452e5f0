package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/config"
	"github.com/matzehuels/calgrid/pkg/pipeline"
)

// renderCommand creates the render command for producing grid images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags      gridFlags
		output     string
		formatsStr string
	)
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "render [source...]",
		Short: "Render the calendar grid to SVG, PNG, PDF, JSON or DOT",
		Long: `Render the calendar grid to SVG, PNG, PDF, JSON or DOT.

Overlapping events share the width of their day column. The dot format
writes the conflict graph of the view: one node per event and an edge
between every pair of overlapping events.

Results are cached, so re-rendering an unchanged calendar is instant.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			merged := flags.options(cmd, cfg, args)
			merged.Formats = parseFormats(formatsStr)
			if cmd.Flags().Changed("style") {
				merged.Style = opts.Style
			}
			if cmd.Flags().Changed("column-width") {
				merged.ColumnWidth = opts.ColumnWidth
			}
			merged.Title = opts.Title
			return c.runRender(cmd.Context(), cfg, merged, flags.noCache, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.Style, "style", pipeline.DefaultStyle, "visual style: simple, outline")
	cmd.Flags().Float64Var(&opts.ColumnWidth, "column-width", pipeline.DefaultColumnWidth, "day column width in pixels")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title drawn above the grid")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, cfg *config.Config, opts pipeline.Options, noCache bool, output string) error {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := startSpinner(ctx, "Rendering calendar...")
	result, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}

	loggerFromContext(ctx).Debug("writing artifacts", "formats", opts.Formats, "output", output)
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, output, defaultBase(result.Grid))
	if err != nil {
		return err
	}

	printSuccess("Rendered %s view", result.Grid.View)
	printStats(result.Stats.PlacementCount, result.Stats.MaxColumns, result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes one file per format and returns the paths in
// format order. A single format is written to output verbatim when it is
// set.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, fallback string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	base := basePath(output, fallback)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		p := base + "." + f
		if err := os.WriteFile(p, artifacts[f], 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

// basePath strips a known format extension from output, or returns
// fallback when output is empty.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// defaultBase names output after the view and its first day, e.g.
// "calgrid-week-2024-03-04".
func defaultBase(g calendar.Grid) string {
	if len(g.Days) == 0 {
		return appName
	}
	return fmt.Sprintf("%s-%s-%s", appName, g.View, g.Days[0].Date.Format(calendar.DateLayout))
}
