package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/calgrid/pkg/cache"
	"github.com/matzehuels/calgrid/pkg/calendar"
	"github.com/matzehuels/calgrid/pkg/httputil"
	"github.com/matzehuels/calgrid/pkg/layout"
	"github.com/matzehuels/calgrid/pkg/observability"
	"github.com/matzehuels/calgrid/pkg/source"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the server and the watch loop share this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for its cache, fetcher and logger.
// Multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Fetcher *httputil.Fetcher
	Logger  *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Fetcher: httputil.NewFetcher(),
		Logger:  logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Artifacts: make(map[string][]byte)}
	hooks := observability.Pipeline()

	// Stage 1: Load
	hooks.OnLoadStart(ctx, opts.Sources)
	loadStart := time.Now()
	loaded, err := r.Load(ctx, opts)
	result.Stats.LoadTime = time.Since(loadStart)
	hooks.OnLoadComplete(ctx, opts.Sources, len(loaded.Events), result.Stats.LoadTime, err)
	if err != nil {
		return nil, err
	}
	result.Events = loaded.Events
	result.Stats.SourceCount = len(opts.Sources)
	result.Stats.EventCount = len(loaded.Events)

	r.Logger.Info("loaded events",
		"sources", len(opts.Sources),
		"events", len(loaded.Events),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	hooks.OnLayoutStart(ctx, opts.View, len(loaded.Events))
	layoutStart := time.Now()
	g, layoutHit, eventsHash, err := r.LayoutWithCacheInfo(ctx, loaded, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, opts.View, g.EventCount(), result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Grid = g
	result.EventsHash = eventsHash
	result.CacheInfo.LayoutHit = layoutHit
	result.Stats.PlacementCount = g.EventCount()
	result.Stats.MaxColumns = g.MaxColumns()

	r.Logger.Info("computed layout",
		"view", opts.View,
		"days", len(g.Days),
		"placements", result.Stats.PlacementCount,
		"max_columns", result.Stats.MaxColumns,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load runs the load stage with the runner's cache and fetcher.
func (r *Runner) Load(ctx context.Context, opts Options) (Loaded, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Loaded{}, err
	}
	r.applyLogger(&opts)
	return Load(ctx, opts, source.Options{
		Cache:   r.Cache,
		Keyer:   r.Keyer,
		Fetcher: r.Fetcher,
		Refresh: opts.Refresh,
		Logger:  opts.Logger,
	})
}

// LayoutWithCacheInfo lays out loaded events with caching. It returns the
// grid, whether it came from cache and the hash of the events.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, loaded Loaded, opts Options) (calendar.Grid, bool, string, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return calendar.Grid{}, false, "", err
	}
	r.applyLogger(&opts)

	eventsHash, err := cache.HashJSON(loaded.Events)
	if err != nil {
		return calendar.Grid{}, false, "", err
	}
	gridOpts := opts.GridOptions(loaded.Calendars)
	cacheKey := r.Keyer.LayoutKey(eventsHash, opts.LayoutKeyOpts(gridOpts))

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached calendar.Grid
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return cached, true, eventsHash, nil
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	g := calendar.BuildGrid(loaded.Events, opts.CalendarView(), gridOpts)

	if data, err := json.Marshal(g); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return g, false, eventsHash, nil
}

// Layout is a convenience wrapper that lays out events without source
// calendars and discards the cache info.
func (r *Runner) Layout(ctx context.Context, events []layout.Event, opts Options) (calendar.Grid, error) {
	g, _, _, err := r.LayoutWithCacheInfo(ctx, Loaded{Events: events}, opts)
	return g, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g calendar.Grid, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	gridHash, err := cache.HashJSON(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize grid for cache key: %w", err)
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(gridHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	rendered, err := Render(g, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(gridHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g calendar.Grid, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
