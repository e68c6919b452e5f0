package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// laneWidth is the number of cells that stand for 100% of a day column.
const laneWidth = 24

// browseCommand opens an interactive day view.
func (c *CLI) browseCommand() *cobra.Command {
	var flags gridFlags

	cmd := &cobra.Command{
		Use:   "browse [source...]",
		Short: "Step through days interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := flags.options(cmd, cfg, args)
			opts.View = string(calendar.ViewDay)
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			// The TUI owns the terminal; keep log lines out of it.
			c.SetLogLevel(LogWarn)
			model := NewDayModel(opts.CalendarView().Date, dayLoader(ctx, runner, opts))
			_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// dayLoader returns a loader that runs the layout stages for one day.
func dayLoader(ctx context.Context, runner *pipeline.Runner, base pipeline.Options) func(time.Time) (calendar.Grid, error) {
	return func(day time.Time) (calendar.Grid, error) {
		opts := base.Clone()
		opts.Date = day.Format(calendar.DateLayout)
		loggerFromContext(ctx).Debug("loading day", "date", opts.Date)
		loaded, err := runner.Load(ctx, opts)
		if err != nil {
			return calendar.Grid{}, err
		}
		g, _, _, err := runner.LayoutWithCacheInfo(ctx, loaded, opts)
		return g, err
	}
}

// =============================================================================
// DayModel - Interactive day navigation
// =============================================================================

type gridMsg struct {
	day  time.Time
	grid calendar.Grid
	err  error
}

// DayModel is the bubbletea model of the browse command.
type DayModel struct {
	Day     time.Time
	Grid    calendar.Grid
	Err     error
	Cursor  int
	Loading bool

	load  func(time.Time) (calendar.Grid, error)
	today time.Time
}

// NewDayModel creates a model showing day. load is called whenever the
// shown day changes.
func NewDayModel(day time.Time, load func(time.Time) (calendar.Grid, error)) DayModel {
	return DayModel{Day: day, today: day, load: load, Loading: true}
}

func (m DayModel) Init() tea.Cmd {
	return m.fetch(m.Day)
}

func (m DayModel) fetch(day time.Time) tea.Cmd {
	load := m.load
	return func() tea.Msg {
		g, err := load(day)
		return gridMsg{day: day, grid: g, err: err}
	}
}

func (m DayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gridMsg:
		if !msg.day.Equal(m.Day) {
			return m, nil
		}
		m.Grid, m.Err, m.Loading = msg.grid, msg.err, false
		m.Cursor = 0
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			return m.goTo(m.Day.AddDate(0, 0, -1))
		case "right", "l":
			return m.goTo(m.Day.AddDate(0, 0, 1))
		case "t":
			return m.goTo(m.today)
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.placements())-1 {
				m.Cursor++
			}
		}
	}
	return m, nil
}

func (m DayModel) goTo(day time.Time) (tea.Model, tea.Cmd) {
	m.Day = day
	m.Loading = true
	return m, m.fetch(day)
}

func (m DayModel) placements() []placementRow {
	var rows []placementRow
	for _, d := range m.Grid.Days {
		for _, p := range d.Placements {
			rows = append(rows, placementRow{
				time:  timeRange(p.Event),
				title: p.Event.Title,
				lane:  lane(p.Left, p.Width),
				cols:  fmt.Sprintf("%d/%d", p.Column+1, p.TotalColumns),
			})
		}
	}
	return rows
}

type placementRow struct {
	time, title, lane, cols string
}

// lane draws a placement's horizontal extent within the day column.
func lane(left, width float64) string {
	start := int(left/100*laneWidth + 0.5)
	n := int(width/100*laneWidth + 0.5)
	if n < 1 {
		n = 1
	}
	if start+n > laneWidth {
		n = laneWidth - start
	}
	return strings.Repeat("·", start) + strings.Repeat("█", n) + strings.Repeat("·", laneWidth-start-n)
}

func (m DayModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Day.Format("Monday, 02 January 2006")))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ day  t today  ↑/↓ select  q quit"))
	b.WriteString("\n\n")

	switch {
	case m.Loading:
		b.WriteString(listDimStyle.Render("Loading..."))
	case m.Err != nil:
		b.WriteString(lineError.render(m.Err.Error()))
	default:
		b.WriteString(m.renderTable())
	}
	b.WriteString("\n")
	return b.String()
}

func (m DayModel) renderTable() string {
	rows := m.placements()
	if len(rows) == 0 {
		return listDimStyle.Render("No events")
	}
	data := make([][]string, len(rows))
	for i, r := range rows {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		data[i] = []string{cursor, r.time, r.lane, r.cols, r.title}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Time", "Columns", "", "Event").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 {
				return listDimStyle
			}
			return listNormalStyle
		})
	return t.Render()
}
