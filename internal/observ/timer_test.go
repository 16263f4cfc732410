package observ

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)

	lex := tm.Begin("lex")
	assert.Equal(t, time.Millisecond, tm.End(lex, "tokens=3", false))
	parse := tm.Begin("parse")
	tm.End(parse, "", true)

	r := tm.Report()
	require.Len(t, r.Phases, 2)
	assert.Equal(t, PhaseReport{Name: "lex", DurationMS: 1, Note: "tokens=3"}, r.Phases[0])
	assert.True(t, r.Phases[1].Failed)
	assert.InDelta(t, 2.0, r.TotalMS, 1e-9)
}

func TestEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	assert.Zero(t, tm.End(3, "x", false))
	assert.Zero(t, tm.End(-1, "x", false))
	assert.Empty(t, tm.Report().Phases)
}

func TestSummary(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)
	tm.End(tm.Begin("lower"), "nodes=5", true)

	want := strings.Join([]string{
		"timings:",
		"  lower                   2.00 ms  !  // nodes=5",
		"  total                   2.00 ms",
		"",
	}, "\n")
	assert.Equal(t, want, tm.Summary())
	assert.Equal(t, want, tm.Report().String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestReportWriteError(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)
	tm.End(tm.Begin("parse"), "", false)

	require.EqualError(t, tm.Report().Write(failingWriter{}), "disk full")

	var sb strings.Builder
	require.NoError(t, tm.Report().Write(&sb))
	assert.Equal(t, tm.Summary(), sb.String())
}

func TestNilTimerReport(t *testing.T) {
	var tm *Timer
	assert.Equal(t, Report{}, tm.Report())
}
