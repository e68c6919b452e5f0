package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline, cache and feed events to a logger at debug
// level. Errors are reported at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to the default logger
// when logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	Install(Hooks{Pipeline: h, Cache: h, HTTP: h})
}

func (h *LogHooks) OnLoadStart(_ context.Context, sources []string) {
	h.Logger.Debug("load start", "sources", len(sources))
}

func (h *LogHooks) OnLoadComplete(_ context.Context, sources []string, eventCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("load failed", "sources", len(sources), "error", err)
		return
	}
	h.Logger.Debug("load complete", "events", eventCount, "duration", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, view string, eventCount int) {
	h.Logger.Debug("layout start", "view", view, "events", eventCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, view string, placementCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("layout failed", "view", view, "error", err)
		return
	}
	h.Logger.Debug("layout complete", "view", view, "placements", placementCount, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "formats", formats, "error", err)
		return
	}
	h.Logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.Logger.Debug("fetch", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.Logger.Debug("fetched", "host", host, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.Logger.Warn("fetch failed", "host", host, "path", path, "error", err)
}
