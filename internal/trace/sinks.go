package trace

import (
	"errors"
	"io"
	"sync"
)

type threshold Level

func (t threshold) Level() Level  { return Level(t) }
func (t threshold) Enabled() bool { return Level(t) > LevelOff }

// StreamTracer formats every event as it arrives.
type StreamTracer struct {
	threshold
	format Format

	mu sync.Mutex
	w  io.Writer
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{threshold: threshold(level), format: format, w: w}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !Level(t.threshold).ShouldEmit(ev.Scope) {
		return
	}
	line := FormatEvent(ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// ошибки записи трассы не должны ронять компиляцию
	_, _ = t.w.Write(line) //nolint:errcheck
}

func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close closes the writer when it is an io.Closer; wrap stderr before
// handing it over.
func (t *StreamTracer) Close() error {
	err := t.Flush()
	if c, ok := t.w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

// RingTracer keeps the newest events in memory for a dump on exit.
type RingTracer struct {
	threshold

	mu    sync.Mutex
	buf   []Event
	total uint64 // events ever stored
}

// NewRingTracer keeps at most size events; size <= 0 means 4096.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = defaultRingSize
	}
	return &RingTracer{threshold: threshold(level), buf: make([]Event, size)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !Level(t.threshold).ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	t.buf[t.total%uint64(len(t.buf))] = *ev
	t.total++
	t.mu.Unlock()
}

// Snapshot copies the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	n := min(t.total, size)
	out := make([]Event, 0, n)
	for i := t.total - n; i < t.total; i++ {
		out = append(out, t.buf[i%size])
	}
	return out
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }

// MultiTracer forwards to several sinks; each applies its own level.
type MultiTracer struct {
	threshold
	sinks []Tracer
}

func NewMultiTracer(level Level, sinks ...Tracer) *MultiTracer {
	return &MultiTracer{threshold: threshold(level), sinks: sinks}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, s := range t.sinks {
		s.Emit(ev)
	}
}

func (t *MultiTracer) Flush() error { return t.each(Tracer.Flush) }
func (t *MultiTracer) Close() error { return t.each(Tracer.Close) }

func (t *MultiTracer) each(fn func(Tracer) error) error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, fn(s))
	}
	return errors.Join(errs...)
}
