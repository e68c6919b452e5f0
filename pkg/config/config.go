// Package config loads the calgrid configuration file.
//
// The file lives at $XDG_CONFIG_HOME/calgrid/config.toml (or the platform
// equivalent) unless CALGRID_CONFIG names another path. Every field is
// optional; [Config.Normalize] fills in defaults and command-line flags
// override whatever the file sets.
//
//	sources   = ["~/cal/team.ics", "webcal://example.com/holidays.ics"]
//	timezone  = "Europe/Berlin"
//	start_hour = 7
//	end_hour   = 20
//
//	[[calendars]]
//	id    = "team"
//	color = "#4C8BF5"
//
//	[cache]
//	backend   = "redis"
//	namespace = "staging"
//	[cache.redis]
//	addr = "localhost:6379"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"

	"github.com/matzehuels/calgrid/pkg/cache"
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/errors"
	"github.com/matzehuels/calgrid/pkg/pipeline"
)

const (
	appName  = "calgrid"
	fileName = "config.toml"

	// EnvPath overrides the configuration file location.
	EnvPath = "CALGRID_CONFIG"

	DefaultServerAddr    = ":8080"
	DefaultNATSSubject   = "calgrid.grid"
	DefaultWatchSchedule = "*/15 * * * *"
)

// Config is the content of the configuration file.
type Config struct {
	Sources       []string            `toml:"sources"`
	Timezone      string              `toml:"timezone"`
	View          string              `toml:"view"`
	WeekStart     string              `toml:"week_start"`
	StartHour     int                 `toml:"start_hour"`
	EndHour       int                 `toml:"end_hour"`
	PixelsPerHour float64             `toml:"pixels_per_hour"`
	Style         string              `toml:"style"`
	ColumnWidth   float64             `toml:"column_width"`
	Calendars     []calendar.Calendar `toml:"calendars"`

	Cache  cache.Config `toml:"cache"`
	Server Server       `toml:"server"`
	NATS   NATS         `toml:"nats"`
	Watch  Watch        `toml:"watch"`
}

// Server configures `calgrid serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// NATS configures grid publishing.
type NATS struct {
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
	Name    string `toml:"name"`
}

// Watch configures `calgrid watch`.
type Watch struct {
	Schedule  string   `toml:"schedule"`
	View      string   `toml:"view"`
	Formats   []string `toml:"formats"`
	OutputDir string   `toml:"output_dir"`
}

// Path returns the configuration file location.
func Path() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, appName, fileName), nil
}

// Load reads the file at path and normalizes it. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeParseFailed, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads the file at [Path].
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Normalize applies defaults and expands ~ in paths.
func (c *Config) Normalize() {
	if c.View == "" {
		c.View = pipeline.DefaultView
	}
	if c.WeekStart == "" {
		c.WeekStart = pipeline.DefaultWeekStart
	}
	if c.EndHour == 0 {
		c.EndHour = pipeline.DefaultEndHour
	}
	if c.PixelsPerHour == 0 {
		c.PixelsPerHour = pipeline.DefaultPixelsPerHour
	}
	if c.Style == "" {
		c.Style = pipeline.DefaultStyle
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendFile
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = DefaultNATSSubject
	}
	if c.NATS.Name == "" {
		c.NATS.Name = appName
	}
	if c.Watch.Schedule == "" {
		c.Watch.Schedule = DefaultWatchSchedule
	}
	if c.Watch.View == "" {
		c.Watch.View = c.View
	}
	for i, s := range c.Sources {
		c.Sources[i] = expandHome(s)
	}
	c.Cache.Dir = expandHome(c.Cache.Dir)
	c.Watch.OutputDir = expandHome(c.Watch.OutputDir)
}

// Validate checks the values a pipeline run cannot catch itself.
func (c *Config) Validate() error {
	for _, s := range c.Sources {
		if err := errors.ValidateSource(s); err != nil {
			return err
		}
	}
	if _, err := errors.ValidateTimezone(c.Timezone); err != nil {
		return err
	}
	if err := errors.ValidateHours(c.StartHour, c.EndHour); err != nil {
		return err
	}
	if err := pipeline.ValidateView(c.View); err != nil {
		return err
	}
	if err := pipeline.ValidateStyle(c.Style); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Watch.Formats); err != nil {
		return err
	}
	for _, cal := range c.Calendars {
		if cal.ID == "" {
			return errors.New(errors.ErrCodeInvalidInput, "calendar without id")
		}
		if err := errors.ValidateColor(cal.Color); err != nil {
			return err
		}
	}
	if _, err := cron.ParseStandard(c.Watch.Schedule); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid watch schedule %q", c.Watch.Schedule)
	}
	return nil
}

// Save writes c to path, creating parent directories.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// PipelineOptions returns pipeline options carrying the configured
// defaults. Callers override fields from flags.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Sources:       append([]string(nil), c.Sources...),
		View:          c.View,
		Timezone:      c.Timezone,
		WeekStart:     c.WeekStart,
		StartHour:     c.StartHour,
		EndHour:       c.EndHour,
		PixelsPerHour: c.PixelsPerHour,
		Style:         c.Style,
		ColumnWidth:   c.ColumnWidth,
		Calendars:     append([]calendar.Calendar(nil), c.Calendars...),
	}
}

// HiddenCalendars returns the IDs of calendars marked hidden.
func (c *Config) HiddenCalendars() []string {
	var ids []string
	for _, cal := range c.Calendars {
		if cal.Hidden {
			ids = append(ids, cal.ID)
		}
	}
	return ids
}

func expandHome(p string) string {
	rest, ok := strings.CutPrefix(p, "~/")
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}
