package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestStreamTracerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)

	span := Begin(tr, ScopePass, "parse", 0)
	Point(tr, ScopeNode, "lower.node", "hidden at phase level")
	span.WithExtra("file", "a.mcl").End("ok")

	out := buf.String()
	if !strings.Contains(out, "→ parse") || !strings.Contains(out, "← parse (ok) {file=a.mcl}") {
		t.Fatalf("unexpected trace output:\n%s", out)
	}
	if strings.Contains(out, "lower.node") {
		t.Fatalf("node scope must be filtered at phase level:\n%s", out)
	}
}

func TestRingTracerSnapshotOrder(t *testing.T) {
	tr := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(tr, ScopeNode, name, "")
	}
	events := tr.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected ring contents: %+v", events)
	}
}

func TestNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeDriver, "start", "x")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"name":"start"`) {
		t.Fatalf("bad ndjson: %s", buf.String())
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop tracer by default")
	}
	tr := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatalf("tracer not propagated")
	}
}

func TestNewOff(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStartNestsSpans(t *testing.T) {
	tr := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), tr)

	ctx, outer := Start(ctx, ScopeDriver, "compile")
	inner, span := Start(ctx, ScopeModule, "unit")
	if CurrentSpan(inner).SpanID != span.ID() {
		t.Fatalf("inner context does not carry the new span")
	}
	span.End("")
	outer.End("done")

	events := tr.Snapshot()
	if len(events) != 4 {
		t.Fatalf("want 4 events, got %+v", events)
	}
	if events[1].ParentID != outer.ID() {
		t.Fatalf("unit parent = %d, want %d", events[1].ParentID, outer.ID())
	}
	if events[3].Kind != KindSpanEnd || events[3].Detail != "done" {
		t.Fatalf("unexpected closing event: %+v", events[3])
	}
}

func TestStartFilteredKeepsContext(t *testing.T) {
	ctx := WithTracer(context.Background(), NewRingTracer(4, LevelPhase))
	got, span := Start(ctx, ScopeNode, "ident")
	if got != ctx || span.ID() != 0 {
		t.Fatalf("filtered span must be inert")
	}
	if span.WithExtra("k", "v").End("") != 0 {
		t.Fatalf("inert span reports a duration")
	}
}

func TestShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeModule, false},
		{LevelDetail, ScopeModule, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope); got != c.want {
			t.Errorf("%s.ShouldEmit(%s) = %v", c.level, c.scope, got)
		}
	}
	if lv, err := ParseLevel("DETAIL"); err != nil || lv != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", lv, err)
	}
}

func TestTextLineDuration(t *testing.T) {
	line := string(FormatEvent(&Event{Kind: KindSpanEnd, Scope: ScopeDriver, Name: "compile", Dur: 1500 * time.Microsecond}, FormatText))
	if !strings.HasSuffix(line, "← compile 1.50ms\n") {
		t.Fatalf("unexpected line %q", line)
	}
	js := string(FormatEvent(&Event{Kind: KindSpanEnd, Scope: ScopeDriver, Name: "compile", Dur: 1500 * time.Microsecond}, FormatNDJSON))
	if !strings.Contains(js, `"dur_us":1500`) {
		t.Fatalf("unexpected ndjson %q", js)
	}
}

type closeCounter struct {
	bytes.Buffer
	closed int
}

func (c *closeCounter) Close() error { c.closed++; return nil }

func TestNewBothClosesStream(t *testing.T) {
	out := &closeCounter{}
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: out})
	if err != nil {
		t.Fatal(err)
	}
	Point(tr, ScopePass, "lex", "")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if out.closed != 1 || !strings.Contains(out.String(), "• lex") {
		t.Fatalf("closed=%d out=%q", out.closed, out.String())
	}
	if _, err := ParseMode("disk"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
