package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/calgrid/pkg/calendar"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", "svg, dot", []string{"svg", "dot"}},
		{"empty items dropped", "json,,png", []string{"json", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, fallback, want string
	}{
		{"", "calgrid-day-2024-03-04", "calgrid-day-2024-03-04"},
		{"out/week.svg", "x", "out/week"},
		{"out/week.pdf", "x", "out/week"},
		{"out/week", "x", "out/week"},
		{"notes.txt", "x", "notes.txt"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.fallback); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.fallback, got, tt.want)
		}
	}
}

func TestDefaultBase(t *testing.T) {
	g := calendar.Grid{
		View: calendar.ViewWeek,
		Days: []calendar.Day{{Date: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)}},
	}
	if got := defaultBase(g); got != "calgrid-week-2024-03-04" {
		t.Errorf("defaultBase() = %q", got)
	}
	if got := defaultBase(calendar.Grid{}); got != appName {
		t.Errorf("defaultBase(empty) = %q, want %q", got, appName)
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")}

	t.Run("single format to output", func(t *testing.T) {
		out := filepath.Join(dir, "grid.svg")
		paths, err := writeArtifacts(artifacts, []string{"svg"}, out, "unused")
		if err != nil {
			t.Fatal(err)
		}
		if len(paths) != 1 || paths[0] != out {
			t.Fatalf("paths = %v", paths)
		}
		data, _ := os.ReadFile(out)
		if string(data) != "<svg/>" {
			t.Errorf("content = %q", data)
		}
	})

	t.Run("multiple formats from base", func(t *testing.T) {
		base := filepath.Join(dir, "cal")
		paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, "", base)
		if err != nil {
			t.Fatal(err)
		}
		want := []string{base + ".svg", base + ".json"}
		for i, p := range want {
			if paths[i] != p {
				t.Errorf("paths[%d] = %q, want %q", i, paths[i], p)
			}
			if _, err := os.Stat(p); err != nil {
				t.Errorf("missing %s: %v", p, err)
			}
		}
	})
}
