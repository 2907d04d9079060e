package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// =============================================================================
// Trace Hooks
// =============================================================================

// TraceHooks records pipeline and cache events on the OpenTelemetry span
// carried by the context. Without a recording span the events are dropped.
type TraceHooks struct{}

var (
	_ PipelineHooks = TraceHooks{}
	_ CacheHooks    = TraceHooks{}
)

func event(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := oteltrace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(name, oteltrace.WithAttributes(attrs...))
	}
}

func fail(ctx context.Context, stage string, err error) {
	span := oteltrace.SpanFromContext(ctx)
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err, oteltrace.WithAttributes(attribute.String("dendro.stage", stage)))
	span.SetStatus(codes.Error, stage+" failed")
}

func (TraceHooks) OnParseStart(ctx context.Context, source string) {
	event(ctx, "parse.start", attribute.String("dendro.source", source))
}

func (TraceHooks) OnParseComplete(ctx context.Context, source string, nodes int, d time.Duration, err error) {
	event(ctx, "parse.complete",
		attribute.String("dendro.source", source),
		attribute.Int("dendro.nodes", nodes),
		attribute.Int64("dendro.duration_ms", d.Milliseconds()))
	fail(ctx, "parse", err)
}

func (TraceHooks) OnLayoutStart(ctx context.Context, mode string, tips int) {
	event(ctx, "layout.start", attribute.String("dendro.mode", mode), attribute.Int("dendro.tips", tips))
}

func (TraceHooks) OnLayoutComplete(ctx context.Context, mode string, d time.Duration, err error) {
	event(ctx, "layout.complete",
		attribute.String("dendro.mode", mode),
		attribute.Int64("dendro.duration_ms", d.Milliseconds()))
	fail(ctx, "layout", err)
}

func (TraceHooks) OnRenderStart(ctx context.Context, formats []string) {
	event(ctx, "render.start", attribute.StringSlice("dendro.formats", formats))
}

func (TraceHooks) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	event(ctx, "render.complete",
		attribute.StringSlice("dendro.formats", formats),
		attribute.Int64("dendro.duration_ms", d.Milliseconds()))
	fail(ctx, "render", err)
}

func (TraceHooks) OnCacheHit(ctx context.Context, keyType string) {
	event(ctx, "cache.hit", attribute.String("dendro.cache.type", keyType))
}

func (TraceHooks) OnCacheMiss(ctx context.Context, keyType string) {
	event(ctx, "cache.miss", attribute.String("dendro.cache.type", keyType))
}

func (TraceHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	event(ctx, "cache.set", attribute.String("dendro.cache.type", keyType), attribute.Int("dendro.cache.bytes", size))
}

// =============================================================================
// Fan-out
// =============================================================================

// PipelineHooksList forwards every event to each of its hooks in order.
type PipelineHooksList []PipelineHooks

func (l PipelineHooksList) OnParseStart(ctx context.Context, source string) {
	for _, h := range l {
		h.OnParseStart(ctx, source)
	}
}

func (l PipelineHooksList) OnParseComplete(ctx context.Context, source string, nodes int, d time.Duration, err error) {
	for _, h := range l {
		h.OnParseComplete(ctx, source, nodes, d, err)
	}
}

func (l PipelineHooksList) OnLayoutStart(ctx context.Context, mode string, tips int) {
	for _, h := range l {
		h.OnLayoutStart(ctx, mode, tips)
	}
}

func (l PipelineHooksList) OnLayoutComplete(ctx context.Context, mode string, d time.Duration, err error) {
	for _, h := range l {
		h.OnLayoutComplete(ctx, mode, d, err)
	}
}

func (l PipelineHooksList) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range l {
		h.OnRenderStart(ctx, formats)
	}
}

func (l PipelineHooksList) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range l {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

// CacheHooksList forwards every event to each of its hooks in order.
type CacheHooksList []CacheHooks

func (l CacheHooksList) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range l {
		h.OnCacheHit(ctx, keyType)
	}
}

func (l CacheHooksList) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range l {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (l CacheHooksList) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range l {
		h.OnCacheSet(ctx, keyType, size)
	}
}
