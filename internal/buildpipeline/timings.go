package buildpipeline

import "time"

// Timings accumulates wall time per stage in first-seen order.
// The zero value is ready to use.
type Timings struct {
	order []Stage
	dur   map[Stage]time.Duration
}

func (t *Timings) Add(stage Stage, d time.Duration) {
	if t == nil {
		return
	}
	if _, seen := t.dur[stage]; !seen {
		if t.dur == nil {
			t.dur = make(map[Stage]time.Duration, 4)
		}
		t.order = append(t.order, stage)
	}
	t.dur[stage] += d
}

// Set replaces the stage total.
func (t *Timings) Set(stage Stage, d time.Duration) {
	if t == nil {
		return
	}
	t.Add(stage, 0)
	t.dur[stage] = d
}

func (t Timings) Has(stage Stage) bool {
	_, ok := t.dur[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration {
	return t.dur[stage]
}

// Stages lists recorded stages in the order they first ran.
func (t Timings) Stages() []Stage {
	return append([]Stage(nil), t.order...)
}
