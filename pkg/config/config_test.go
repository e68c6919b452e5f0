package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/calgrid/pkg/cache"
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/errors"
)

const sample = `
sources = ["team.ics", "https://example.com/holidays.ics"]
timezone = "UTC"
view = "week"
start_hour = 7
end_hour = 20
style = "outline"

[[calendars]]
id = "team"
color = "#4C8BF5"

[[calendars]]
id = "private"
hidden = true

[cache]
backend = "redis"

[cache.redis]
addr = "localhost:6379"
prefix = "calgrid:"

[nats]
url = "nats://localhost:4222"

[watch]
schedule = "@every 5m"
formats = ["svg", "json"]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.EndHour != 24 || cfg.PixelsPerHour != 60 || cfg.View != "day" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Cache.Backend != cache.BackendFile {
		t.Errorf("cache backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != DefaultServerAddr || cfg.NATS.Subject != DefaultNATSSubject {
		t.Errorf("server/nats defaults not applied: %+v %+v", cfg.Server, cfg.NATS)
	}
	if cfg.Watch.Schedule != DefaultWatchSchedule {
		t.Errorf("watch schedule = %q", cfg.Watch.Schedule)
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[1] != "https://example.com/holidays.ics" {
		t.Errorf("sources = %v", cfg.Sources)
	}
	if cfg.StartHour != 7 || cfg.EndHour != 20 {
		t.Errorf("hours = %d-%d, want 7-20", cfg.StartHour, cfg.EndHour)
	}
	if cfg.Cache.Backend != cache.BackendRedis || cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Watch.View != "week" {
		t.Errorf("watch view = %q, want view default", cfg.Watch.View)
	}
	if got := cfg.HiddenCalendars(); len(got) != 1 || got[0] != "private" {
		t.Errorf("HiddenCalendars() = %v", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    errors.Code
	}{
		{"syntax", "sources = [", errors.ErrCodeParseFailed},
		{"unknown key", "colour = \"red\"", errors.ErrCodeInvalidInput},
		{"bad hours", "start_hour = 20\nend_hour = 8", errors.ErrCodeInvalidHour},
		{"bad timezone", "timezone = \"Nowhere/City\"", errors.ErrCodeInvalidTimezone},
		{"bad style", "style = \"fancy\"", errors.ErrCodeInvalidStyle},
		{"bad schedule", "[watch]\nschedule = \"every now and then\"", errors.ErrCodeInvalidInput},
		{"bad color", "[[calendars]]\nid = \"x\"\ncolor = \"blue\"", errors.ErrCodeInvalidInput},
		{"calendar without id", "[[calendars]]\nname = \"x\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Save error: %v", err)
	}
	if loaded.Style != "outline" || len(loaded.Calendars) != 2 || loaded.NATS.URL != "nats://localhost:4222" {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvPath, "/etc/calgrid.toml")
	if p, err := Path(); err != nil || p != "/etc/calgrid.toml" {
		t.Errorf("Path() = %q, %v", p, err)
	}

	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/xdg", appName, fileName); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := &Config{
		Sources:   []string{"a.ics"},
		StartHour: 8,
		Calendars: []calendar.Calendar{{ID: "team"}},
	}
	cfg.Normalize()
	opts := cfg.PipelineOptions()
	if opts.StartHour != 8 || opts.EndHour != 24 || opts.View != "day" {
		t.Errorf("options = %+v", opts)
	}
	opts.Sources[0] = "changed.ics"
	if cfg.Sources[0] != "a.ics" {
		t.Error("PipelineOptions shares the sources slice")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("config options should validate: %v", err)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandHome("~/cal/team.ics"); got != filepath.Join(home, "cal", "team.ics") {
		t.Errorf("expandHome() = %q", got)
	}
	if got := expandHome("/abs/team.ics"); got != "/abs/team.ics" {
		t.Errorf("expandHome() changed absolute path: %q", got)
	}
}
