// Package trace records what the compiler did and how long it took.
//
// A Tracer travels in the context. Stages open spans with Start and close
// them with End; everything below the configured Level is dropped before
// it reaches a sink:
//
//	ctx, span := trace.Start(ctx, trace.ScopePass, "parse")
//	defer span.End("")
//
// Sinks: a stream writer (text or NDJSON), an in-memory ring dumped on
// exit, or both. From the CLI:
//
//	mycompiler check --trace=- --trace-level=detail prog.mcl
package trace

import "context"

// Tracer receives events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	// Close flushes and releases the underlying writer, if any.
	Close() error
	Level() Level
	Enabled() bool
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything; FromContext returns it when no tracer is set.
var Nop Tracer = nopTracer{}

type (
	tracerKey struct{}
	spanKey   struct{}
)

// SpanContext identifies the innermost open span of a context.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CurrentSpan returns the zero SpanContext outside any span.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanKey{}).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanKey{}, sc)
}
