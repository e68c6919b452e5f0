// Package observability lets callers watch calgrid's pipeline, cache and
// feed downloads without calgrid importing a metrics or tracing library.
//
// Libraries report through the package-level accessors:
//
//	observability.Pipeline().OnLayoutStart(ctx, "week", len(events))
//
// Programs pick the receivers once at startup. [LogHooks] writes every
// event to a charmbracelet logger; anything else (Prometheus counters,
// OpenTelemetry spans) implements the same interfaces:
//
//	observability.Install(observability.Hooks{Pipeline: myMetrics})
//
// Until something is installed every accessor returns a no-op.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the load, layout and render stages.
type PipelineHooks interface {
	OnLoadStart(ctx context.Context, sources []string)
	OnLoadComplete(ctx context.Context, sources []string, eventCount int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, view string, eventCount int)
	OnLayoutComplete(ctx context.Context, view string, placementCount int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives cache lookups and writes. keyType is "feed",
// "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives calendar feed downloads.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError is called for transport failures, not for error statuses.
	OnError(ctx context.Context, method, host, path string, err error)
}

type (
	NoopPipelineHooks struct{}
	NoopCacheHooks    struct{}
	NoopHTTPHooks     struct{}
)

func (NoopPipelineHooks) OnLoadStart(context.Context, []string)                              {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, []string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// Hooks is a set of receivers. Nil fields leave the installed receiver of
// that category unchanged.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

var noop = Hooks{NoopPipelineHooks{}, NoopCacheHooks{}, NoopHTTPHooks{}}

var installed atomic.Pointer[Hooks]

func init() { Reset() }

func current() *Hooks { return installed.Load() }

// Install replaces the receivers named by h. Later calls win.
func Install(h Hooks) {
	for {
		old := current()
		next := *old
		if h.Pipeline != nil {
			next.Pipeline = h.Pipeline
		}
		if h.Cache != nil {
			next.Cache = h.Cache
		}
		if h.HTTP != nil {
			next.HTTP = h.HTTP
		}
		if installed.CompareAndSwap(old, &next) {
			return
		}
	}
}

func SetPipelineHooks(h PipelineHooks) { Install(Hooks{Pipeline: h}) }
func SetCacheHooks(h CacheHooks)       { Install(Hooks{Cache: h}) }
func SetHTTPHooks(h HTTPHooks)         { Install(Hooks{HTTP: h}) }

func Pipeline() PipelineHooks { return current().Pipeline }
func Cache() CacheHooks       { return current().Cache }
func HTTP() HTTPHooks         { return current().HTTP }

// Reset restores the no-op receivers.
func Reset() {
	h := noop
	installed.Store(&h)
}
