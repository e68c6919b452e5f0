package conflict

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/layout"
)

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func ev(id string, sh, sm, eh, em int) layout.Event {
	end := monday.Add(time.Duration(eh)*time.Hour + time.Duration(em)*time.Minute)
	return layout.Event{
		ID:    id,
		Title: strings.ToUpper(id),
		Start: monday.Add(time.Duration(sh)*time.Hour + time.Duration(sm)*time.Minute),
		End:   &end,
	}
}

func grid(events ...layout.Event) calendar.Grid {
	return calendar.BuildGrid(events, calendar.View{Kind: calendar.ViewDay, Date: monday},
		calendar.GridOptions{StartHour: 0, EndHour: 24, PixelsPerHour: 60})
}

func TestEdges(t *testing.T) {
	g := grid(
		ev("a", 9, 0, 10, 0),
		ev("b", 9, 30, 10, 30),
		ev("c", 10, 0, 11, 0),
		ev("d", 14, 0, 15, 0),
	)
	edges := Edges(g)
	var pairs []string
	for _, e := range edges {
		pairs = append(pairs, e.A.ID+"-"+e.B.ID)
	}
	got := strings.Join(pairs, ",")
	if got != "a-b,b-c" {
		t.Errorf("edges = %s, want a-b,b-c", got)
	}
}

func TestToDOT(t *testing.T) {
	g := grid(
		ev("a", 9, 0, 10, 0),
		ev("b", 9, 30, 10, 30),
		ev("solo", 14, 0, 15, 0),
	)

	dot := ToDOT(g, Options{})
	for _, want := range []string{
		"graph G {",
		`label="Mon 04 Mar";`,
		`"0/a" -- "0/b";`,
		`label="A\n09:00-10:00\ncol 1/2"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "0/solo") {
		t.Error("isolated event included without Options.Isolated")
	}
	if strings.Contains(dot, "->") {
		t.Error("overlap graph must be undirected")
	}

	withSolo := ToDOT(g, Options{Isolated: true})
	if !strings.Contains(withSolo, `"0/solo"`) {
		t.Error("Options.Isolated did not include the isolated event")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Error("svg without viewBox should be unchanged")
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(grid(ev("a", 9, 0, 10, 0), ev("b", 9, 30, 10, 30)), Options{})
	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not svg")
	}
}

func TestRenderSVGInvalid(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "graph {"); err == nil {
		t.Error("invalid DOT should fail")
	}
}
