package trace

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/petermattis/goid"
)

var seq, spanIDs atomic.Uint64

// NextSeq returns the next global event number.
func NextSeq() uint64 { return seq.Add(1) }

// NextSpanID returns a fresh span id; 0 is never returned.
func NextSpanID() uint64 { return spanIDs.Add(1) }

func currentGID() uint64 {
	return uint64(goid.Get()) // #nosec G115 -- goroutine ids are positive
}

// Span is an open interval. A span the tracer filtered out is inert:
// all methods are safe and do nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

var inert = &Span{}

func (s *Span) live() bool { return s != nil && s.tracer != nil }

// Begin opens a span under parent (0 for a root) on t.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return inert
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		gid:     currentGID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

// Start opens a span under the context's current span and returns a context
// in which the new span is current.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, CurrentSpan(ctx).SpanID)
	if !s.live() {
		return ctx, s
	}
	return WithSpanContext(ctx, SpanContext{SpanID: s.id, GID: s.gid}), s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
	}
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	ev.Dur = now.Sub(s.started)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return ev.Dur
}

// WithExtra attaches key=value to the closing event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   KindPoint,
		Scope:  scope,
		GID:    currentGID(),
		Name:   name,
		Detail: detail,
	})
}
