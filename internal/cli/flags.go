package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/pkg/config"
	"github.com/matzehuels/calgrid/pkg/pipeline"
)

// gridFlags are the view and layout flags shared by every command that
// builds a grid. Values left unset fall back to the config file.
type gridFlags struct {
	view          string
	date          string
	timezone      string
	weekStart     string
	startHour     int
	endHour       int
	pixelsPerHour float64
	hide          []string
	refresh       bool
	noCache       bool
}

func (f *gridFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.view, "view", pipeline.DefaultView, "view: day, week")
	fs.StringVarP(&f.date, "date", "d", "", "date to show, YYYY-MM-DD (default: today)")
	fs.StringVar(&f.timezone, "tz", "", "IANA timezone (default: config or UTC)")
	fs.StringVar(&f.weekStart, "week-start", pipeline.DefaultWeekStart, "first day of the week view")
	fs.IntVar(&f.startHour, "start-hour", pipeline.DefaultStartHour, "first visible hour (0-23)")
	fs.IntVar(&f.endHour, "end-hour", pipeline.DefaultEndHour, "end of the visible window (1-24)")
	fs.Float64Var(&f.pixelsPerHour, "pph", pipeline.DefaultPixelsPerHour, "pixels per hour")
	fs.StringSliceVar(&f.hide, "hide", nil, "calendar IDs to hide (comma-separated)")
	fs.BoolVar(&f.refresh, "refresh", false, "bypass cached feeds")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
}

// options merges cfg, positional sources and the flags the user set.
// Positional sources replace the configured ones.
func (f *gridFlags) options(cmd *cobra.Command, cfg *config.Config, sources []string) pipeline.Options {
	opts := cfg.PipelineOptions()
	if len(sources) > 0 {
		opts.Sources = sources
	}
	fs := cmd.Flags()
	if fs.Changed("view") {
		opts.View = f.view
	}
	if fs.Changed("tz") {
		opts.Timezone = f.timezone
	}
	if fs.Changed("week-start") {
		opts.WeekStart = f.weekStart
	}
	if fs.Changed("start-hour") {
		opts.StartHour = f.startHour
	}
	if fs.Changed("end-hour") {
		opts.EndHour = f.endHour
	}
	if fs.Changed("pph") {
		opts.PixelsPerHour = f.pixelsPerHour
	}
	opts.Date = f.date
	opts.HiddenCalendars = append(cfg.HiddenCalendars(), f.hide...)
	opts.Refresh = f.refresh
	return opts
}
