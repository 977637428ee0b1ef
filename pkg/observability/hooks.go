// Package observability lets the host program watch rendering without the
// library depending on a metrics or tracing backend.
//
// Every hook defaults to a no-op. Register replacements once at startup:
//
//	observability.SetPipelineHooks(myMetrics)
//	observability.SetCacheHooks(myMetrics)
//
// The pipeline runner reports each stage and every artifact cache lookup.
// The HTTP server reports every response.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives one event per stage. err is nil on success.
type PipelineHooks interface {
	// OnParseComplete follows decoding a "toml" or "json" document.
	OnParseComplete(ctx context.Context, format string, elementCount int, duration time.Duration, err error)
	// OnBuildComplete follows drawing the parsed elements on a canvas.
	OnBuildComplete(ctx context.Context, entityCount int, duration time.Duration, err error)
	// OnRenderComplete follows encoding the canvas.
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives artifact cache events. format is the cache variant
// of an output format, such as "svg" or "png@2".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, format string)
	OnCacheMiss(ctx context.Context, format string)
	OnCacheSet(ctx context.Context, format string, size int)
}

// HTTPHooks receives one event per served request. route is the matched
// pattern, such as "/diagrams/{id}".
type HTTPHooks interface {
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, time.Duration, error)         {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one registered hook set.
type slot[T any] struct {
	mu  sync.RWMutex
	cur T
	def T
}

func newSlot[T any](def T) *slot[T] { return &slot[T]{cur: def, def: def} }

func (s *slot[T]) get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set ignores a nil h.
func (s *slot[T]) set(h T) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[T]) reset() {
	s.mu.Lock()
	s.cur = s.def
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	httpSlot     = newSlot[HTTPHooks](NoopHTTPHooks{})
)

func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }
func SetCacheHooks(h CacheHooks)       { cacheSlot.set(h) }
func SetHTTPHooks(h HTTPHooks)         { httpSlot.set(h) }

func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func HTTP() HTTPHooks         { return httpSlot.get() }

// Reset puts the no-op hooks back.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
