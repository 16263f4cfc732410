package buildpipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimingsOrderAndTotals(t *testing.T) {
	var tm Timings
	assert.False(t, tm.Has(StageParse))
	assert.Zero(t, tm.Duration(StageParse))

	tm.Add(StageLower, time.Millisecond)
	tm.Add(StageParse, 2*time.Millisecond)
	tm.Add(StageLower, 3*time.Millisecond)
	tm.Set(StageBuild, 5*time.Millisecond)
	tm.Set(StageParse, time.Millisecond)

	assert.Equal(t, []Stage{StageLower, StageParse, StageBuild}, tm.Stages())
	assert.Equal(t, 4*time.Millisecond, tm.Duration(StageLower))
	assert.Equal(t, time.Millisecond, tm.Duration(StageParse))
	assert.True(t, tm.Has(StageBuild))

	var nilTimings *Timings
	nilTimings.Add(StageParse, time.Second)
}

func TestStageVerb(t *testing.T) {
	assert.Equal(t, "lowered", StageLower.Verb())
	assert.Equal(t, "built", StageBuild.Verb())
	assert.Equal(t, "odd", Stage("odd").Verb())
}
