package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/layout"
	"github.com/matzehuels/calgrid/pkg/pipeline"
)

// agendaCommand prints the laid-out view as a table.
func (c *CLI) agendaCommand() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "agenda [source...]",
		Short: "Print the events of a view with their columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args)
			opts.Formats = []string{pipeline.FormatJSON}

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			loaded, err := runner.Load(ctx, opts)
			if err != nil {
				return err
			}
			g, _, _, err := runner.LayoutWithCacheInfo(ctx, loaded, opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), agendaTable(g))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// agendaRows flattens g into table rows: all-day events first, then the
// timed placements of each day.
func agendaRows(g calendar.Grid) [][]string {
	var rows [][]string
	for _, d := range g.Days {
		date := d.Date.Format("Mon 02 Jan")
		for _, e := range d.AllDay {
			rows = append(rows, []string{date, "all day", e.Title, e.CalendarID, ""})
			date = ""
		}
		for _, p := range d.Placements {
			rows = append(rows, []string{
				date,
				timeRange(p.Event),
				p.Event.Title,
				p.Event.CalendarID,
				fmt.Sprintf("%d/%d", p.Column+1, p.TotalColumns),
			})
			date = ""
		}
	}
	return rows
}

func timeRange(e *layout.Event) string {
	return e.Start.Format("15:04") + "-" + e.EffectiveEnd().Format("15:04")
}

func agendaTable(g calendar.Grid) string {
	rows := agendaRows(g)
	if len(rows) == 0 {
		return StyleDim.Render("No events")
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Day", "Time", "Event", "Calendar", "Column").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return base.Foreground(colorCyan).Bold(true)
			case col == 4 && row < len(rows) && !strings.HasSuffix(rows[row][4], "/1"):
				return base.Foreground(colorYellow)
			case col == 1 || col == 3 || col == 4:
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		})
	return t.Render()
}
