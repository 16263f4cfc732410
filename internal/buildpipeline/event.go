package buildpipeline

import "time"

// Stage is one row of the progress display.
type Stage string

const (
	StageParse Stage = "parse" // lex + parse
	StageLower Stage = "lower" // lowering, location maps, library units
	StageCheck Stage = "check" // go/types in process
	StageBuild Stage = "build" // go build
)

// Verb is the past tense used in timing lines: "parsed 1.2 ms".
func (s Stage) Verb() string {
	switch s {
	case StageParse:
		return "parsed"
	case StageLower:
		return "lowered"
	case StageCheck:
		return "checked"
	case StageBuild:
		return "built"
	}
	return string(s)
}

type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event is a progress update. An empty File means the whole pipeline;
// per-file events repeat it for every path in the request.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink sends every event to Ch, blocking until it is received.
// A nil channel drops events.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(ev Event) {
	if s.Ch != nil {
		s.Ch <- ev
	}
}

// Backend is what runs after lowering.
type Backend string

const (
	BackendCheck Backend = "check" // go/types only
	BackendGo    Backend = "go"    // executable via the go tool
)
