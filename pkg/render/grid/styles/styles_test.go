package styles

import (
	"bytes"
	"strings"
	"testing"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "simple", false},
		{"simple", "simple", false},
		{"outline", "outline", false},
		{"handdrawn", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ByName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ByName(%q) err = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
			if err == nil && s.Name() != tt.want {
				t.Errorf("ByName(%q).Name() = %q, want %q", tt.name, s.Name(), tt.want)
			}
		})
	}
	for _, n := range Names() {
		if _, err := ByName(n); err != nil {
			t.Errorf("listed style %q is not registered", n)
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		label string
		width float64
		want  string
	}{
		{"Standup", 200, "Standup"},
		{"Quarterly planning with the whole team", 60, "Quarter.."},
		{"Long", 1, "L.."},
		{"Über-Meeting", 40, "Übe.."},
	}
	for _, tt := range tests {
		if got := TruncateLabel(tt.label, tt.width, 10); got != tt.want {
			t.Errorf("TruncateLabel(%q, %v) = %q, want %q", tt.label, tt.width, got, tt.want)
		}
	}
}

func TestFontSize(t *testing.T) {
	if got := FontSize(Box{H: 100}); got != fontSizeMax {
		t.Errorf("tall box font = %v, want %v", got, fontSizeMax)
	}
	if got := FontSize(Box{H: 5}); got != fontSizeMin {
		t.Errorf("short box font = %v, want %v", got, fontSizeMin)
	}
}

func TestShowTime(t *testing.T) {
	if !ShowTime(Box{H: 60, Time: "09:00-10:00"}) {
		t.Error("hour-long box should show its time")
	}
	if ShowTime(Box{H: 15, Time: "09:00-09:15"}) {
		t.Error("quarter-hour box should not show its time")
	}
	if ShowTime(Box{H: 60}) {
		t.Error("box without time text should not show a time")
	}
}

func TestTextColor(t *testing.T) {
	tests := map[string]string{
		"#FFFFFF": "#1A1A1A",
		"#F5A623": "#1A1A1A",
		"#000000": "#FFFFFF",
		"#4C8BF5": "#FFFFFF",
		"#fff":    "#1A1A1A",
		"blue":    "#000000",
	}
	for bg, want := range tests {
		if got := TextColor(bg); got != want {
			t.Errorf("TextColor(%q) = %q, want %q", bg, got, want)
		}
	}
}

func TestTint(t *testing.T) {
	if got := Tint("#000000", 1); got != "#FFFFFF" {
		t.Errorf("full tint = %q, want white", got)
	}
	if got := Tint("#336699", 0); got != "#336699" {
		t.Errorf("zero tint = %q, want unchanged", got)
	}
	if got := Tint("#000000", 0.5); got != "#808080" {
		t.Errorf("half tint = %q, want #808080", got)
	}
}

func TestEscapeXML(t *testing.T) {
	if got := EscapeXML(`R&D <sync> "x"`); got != "R&amp;D &lt;sync&gt; &#34;x&#34;" {
		t.Errorf("EscapeXML = %q", got)
	}
}

func TestStylesRenderBox(t *testing.T) {
	box := Box{ID: "a&b", Label: "Review <draft>", Time: "09:00-10:00", Color: "#4C8BF5", X: 10, Y: 20, W: 200, H: 60}
	for _, s := range []Style{Simple{}, Outline{}} {
		t.Run(s.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			s.RenderDefs(&buf)
			s.RenderGridLine(&buf, Line{X1: 0, Y1: 0, X2: 100, Y2: 0, Major: true})
			s.RenderEvent(&buf, box)
			s.RenderText(&buf, box)
			out := buf.String()

			for _, want := range []string{`id="event-a&amp;b"`, "Review &lt;draft&gt;", "09:00-10:00", "<line "} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q", want)
				}
			}
			if strings.Contains(out, "<draft>") {
				t.Error("label was not escaped")
			}
		})
	}
}
