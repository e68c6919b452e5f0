package layout_test

import (
	"fmt"
	"time"

	"github.com/matzehuels/calgrid/pkg/layout"
)

func ExampleCompute() {
	day := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	clock := func(h, m int) time.Time {
		return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}
	end := func(h, m int) *time.Time { t := clock(h, m); return &t }

	events := []layout.Event{
		{ID: "review", Start: clock(10, 30), End: end(11, 30)},
		{ID: "standup", Start: clock(10, 0), End: end(11, 0)},
		{ID: "lunch", Start: clock(12, 0)},
	}

	for _, p := range layout.Compute(events, 8, 60) {
		fmt.Printf("%-8s col %d/%d top=%v height=%v left=%v%% width=%v%%\n",
			p.Event.ID, p.Column, p.TotalColumns, p.Top, p.Height, p.Left, p.Width)
	}
	// Output:
	// standup  col 0/2 top=120 height=60 left=0% width=50%
	// review   col 1/2 top=150 height=60 left=50% width=50%
	// lunch    col 0/1 top=240 height=30 left=0% width=100%
}
