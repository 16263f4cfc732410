package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/buildpipeline"
)

func newTestModel() *progressModel {
	events := make(chan buildpipeline.Event)
	return NewProgressModel("build", "prog.mcl", Stages(buildpipeline.BackendGo), events).(*progressModel)
}

func TestStages(t *testing.T) {
	assert.Equal(t, buildpipeline.StageBuild, Stages(buildpipeline.BackendGo)[2])
	assert.Equal(t, buildpipeline.StageCheck, Stages(buildpipeline.BackendCheck)[2])
}

func TestApplyUpdatesRows(t *testing.T) {
	m := newTestModel()
	assert.Zero(t, m.fraction())

	m.Update(eventMsg{Stage: buildpipeline.StageParse, Status: buildpipeline.StatusWorking})
	assert.Equal(t, buildpipeline.StatusWorking, m.rows[0].status)
	assert.InDelta(t, 0.5/3, m.fraction(), 1e-9)

	m.Update(eventMsg{Stage: buildpipeline.StageParse, Status: buildpipeline.StatusDone, Elapsed: 2 * time.Millisecond})
	m.Update(eventMsg{File: "prog.mcl", Stage: buildpipeline.StageLower, Status: buildpipeline.StatusWorking})
	assert.Equal(t, buildpipeline.StatusQueued, m.rows[1].status, "file events are ignored")

	boom := errors.New("toolchain missing")
	m.Update(eventMsg{Stage: buildpipeline.StageBuild, Status: buildpipeline.StatusError, Err: boom})
	assert.Equal(t, boom, m.rows[2].err)
	assert.InDelta(t, 2.0/3, m.fraction(), 1e-9)

	view := m.View()
	assert.Contains(t, view, "prog.mcl")
	assert.Contains(t, view, "2.0ms")
	assert.Contains(t, view, "toolchain missing")
	assert.Contains(t, view, "queued")
}

func TestDoneQuits(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(doneMsg{})
	require.NotNil(t, cmd)
	assert.True(t, m.done)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(stripANSI(m.View())), "done: build"))
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "lowering", statusText(stageRow{stage: buildpipeline.StageLower, status: buildpipeline.StatusWorking}))
	assert.Equal(t, "done", statusText(stageRow{stage: buildpipeline.StageLower, status: buildpipeline.StatusDone}))
	assert.Equal(t, "queued", statusText(stageRow{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "日本...", truncate("日本語のファイル", 7))
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
