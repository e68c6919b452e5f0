package cli

import (
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/config"
)

func TestGridFlagsOptions(t *testing.T) {
	cfg := &config.Config{
		Sources:   []string{"team.ics"},
		Timezone:  "Europe/Berlin",
		StartHour: 7,
		EndHour:   20,
		Calendars: []calendar.Calendar{{ID: "private", Hidden: true}},
	}
	cfg.Normalize()

	tests := []struct {
		name    string
		args    []string
		sources []string
		check   func(t *testing.T, got string, start, end int, tz string, sources []string, hidden []string)
	}{
		{
			name: "config values kept",
			check: func(t *testing.T, view string, start, end int, tz string, sources, hidden []string) {
				if view != "day" || start != 7 || end != 20 || tz != "Europe/Berlin" {
					t.Errorf("got view=%s hours=%d-%d tz=%s", view, start, end, tz)
				}
				if len(sources) != 1 || sources[0] != "team.ics" {
					t.Errorf("sources = %v", sources)
				}
				if len(hidden) != 1 || hidden[0] != "private" {
					t.Errorf("hidden = %v", hidden)
				}
			},
		},
		{
			name:    "flags override",
			args:    []string{"--view", "week", "--start-hour", "0", "--tz", "UTC", "--hide", "work,gym"},
			sources: []string{"a.json", "b.ics"},
			check: func(t *testing.T, view string, start, end int, tz string, sources, hidden []string) {
				if view != "week" || start != 0 || end != 20 || tz != "UTC" {
					t.Errorf("got view=%s hours=%d-%d tz=%s", view, start, end, tz)
				}
				if len(sources) != 2 {
					t.Errorf("sources = %v, want positional sources", sources)
				}
				if len(hidden) != 3 {
					t.Errorf("hidden = %v, want config plus flag", hidden)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var flags gridFlags
			cmd := &cobra.Command{Use: "test"}
			flags.register(cmd)
			if err := cmd.Flags().Parse(tt.args); err != nil {
				t.Fatal(err)
			}
			opts := flags.options(cmd, cfg, tt.sources)
			tt.check(t, opts.View, opts.StartHour, opts.EndHour, opts.Timezone, opts.Sources, opts.HiddenCalendars)
		})
	}
}
