package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the planning pipeline.
type PipelineHooks interface {
	// OnBuildStart and OnBuildComplete bracket obstruction graph
	// construction for one plan.
	OnBuildStart(ctx context.Context, boxes int, directions []string)
	OnBuildComplete(ctx context.Context, edges int, duration time.Duration, err error)

	// OnSearchStart and OnSearchComplete bracket the search of one graph.
	OnSearchStart(ctx context.Context, direction string, boxes int)
	OnSearchComplete(ctx context.Context, direction string, explored, pruned int64, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is "plan" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, int, []string)                {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnSearchStart(context.Context, string, int)                 {}
func (NoopPipelineHooks) OnSearchComplete(context.Context, string, int64, int64, time.Duration, error) {
}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every HTTP event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// registry is swapped as a whole so readers never see a partial update.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(fn func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		fn(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks registers pipeline hooks. A nil value is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. A nil value is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks registers HTTP hooks. A nil value is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Use registers h for every hook interface it implements and reports
// whether it implemented any.
func Use(h any) bool {
	found := false
	update(func(r *registry) {
		if p, ok := h.(PipelineHooks); ok {
			r.pipeline, found = p, true
		}
		if c, ok := h.(CacheHooks); ok {
			r.cache, found = c, true
		}
		if w, ok := h.(HTTPHooks); ok {
			r.http, found = w, true
		}
	})
	return found
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().http }

// Reset restores the no-op hooks.
func Reset() {
	current.Store(&registry{
		pipeline: NoopPipelineHooks{},
		cache:    NoopCacheHooks{},
		http:     NoopHTTPHooks{},
	})
}
