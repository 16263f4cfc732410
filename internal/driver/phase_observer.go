package driver

import (
	"time"

	"mycompiler/internal/observ"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Phase names reported to observers and timers.
const (
	PhaseLex     = "lex"
	PhaseParse   = "parse"
	PhaseLower   = "lower"
	PhaseLocmap  = "locmap"
	PhaseLibrary = "stdlib"
	PhaseBackend = "backend"
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	// Failed is set on PhaseEnd when the phase produced errors.
	Failed bool
}

// PhaseObserver receives phase events emitted during Compile.
type PhaseObserver func(PhaseEvent)

// phases feeds the optional timer and observer.
type phases struct {
	timer    *observ.Timer
	observer PhaseObserver
}

type phaseHandle struct {
	p       *phases
	name    string
	idx     int
	started time.Time
}

func (p *phases) begin(name string) phaseHandle {
	h := phaseHandle{p: p, name: name, idx: -1, started: time.Now()}
	if p.timer != nil {
		h.idx = p.timer.Begin(name)
	}
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	return h
}

func (h phaseHandle) end(note string, failed bool) {
	if h.p.timer != nil && h.idx >= 0 {
		h.p.timer.End(h.idx, note, failed)
	}
	if h.p.observer != nil {
		h.p.observer(PhaseEvent{Name: h.name, Status: PhaseEnd, Elapsed: time.Since(h.started), Failed: failed})
	}
}
