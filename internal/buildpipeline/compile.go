package buildpipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mycompiler/internal/driver"
)

// ErrDiagnostics is returned when the program has errors. The diagnostics
// themselves are in the driver result.
var ErrDiagnostics = errors.New("diagnostics reported errors")

// CompileRequest configures the shared compilation pipeline.
type CompileRequest struct {
	TargetPath     string
	BaseDir        string
	MaxDiagnostics int
	Stdlib         []string
	Backend        Backend
	EnableTimings  bool
	Progress       ProgressSink
	Files          []string
}

// CompileResult captures the driver result and stage timings.
type CompileResult struct {
	Driver  *driver.Result
	Timings Timings
}

// Compile runs the front end and lowering. With BackendCheck it also
// type-checks the generated units; with BackendGo it stops after lowering
// and leaves the build to Build.
func Compile(ctx context.Context, req *CompileRequest) (CompileResult, error) {
	var result CompileResult
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing compile request")
	}
	if req.TargetPath == "" {
		return result, fmt.Errorf("missing target path")
	}
	if req.Backend == "" {
		req.Backend = BackendCheck
	}
	if req.Backend != BackendCheck && req.Backend != BackendGo {
		return result, fmt.Errorf("unsupported backend: %s (supported: check, go)", req.Backend)
	}

	emitQueued(req.Progress, req.Files)
	observer := &phaseObserver{sink: req.Progress, files: req.Files, timings: &result.Timings}

	opts := driver.Options{
		MaxDiagnostics: req.MaxDiagnostics,
		Stdlib:         req.Stdlib,
		BaseDir:        req.BaseDir,
		EnableTimings:  req.EnableTimings,
		PhaseObserver:  observer.OnPhase,
	}
	if req.Backend == BackendGo {
		opts.Stop = driver.StageLower
	}
	res, err := driver.Compile(ctx, req.TargetPath, opts)
	result.Driver = res
	if err == nil && res.Failed() {
		err = ErrDiagnostics
	}
	if err != nil {
		emitStage(req.Progress, req.Files, observer.current(), StatusError, err, 0)
		return result, err
	}
	last := observer.current()
	emitStage(req.Progress, req.Files, last, StatusDone, nil, result.Timings.Duration(last))
	return result, nil
}

// phaseObserver turns driver phases into progress events and timings.
type phaseObserver struct {
	sink    ProgressSink
	files   []string
	timings *Timings
	stage   Stage
}

func (p *phaseObserver) current() Stage {
	if p.stage == "" {
		return StageParse
	}
	return p.stage
}

func stageOf(phase string) Stage {
	switch phase {
	case driver.PhaseLex, driver.PhaseParse:
		return StageParse
	case driver.PhaseBackend:
		return StageCheck
	}
	return StageLower
}

// OnPhase updates the progress UI based on compiler phase events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	stage := stageOf(ev.Name)
	if ev.Status == driver.PhaseEnd {
		p.timings.Add(stage, ev.Elapsed)
		return
	}
	if stage == p.stage {
		return
	}
	if p.stage != "" {
		emitStage(p.sink, p.files, p.stage, StatusDone, nil, p.timings.Duration(p.stage))
	}
	p.stage = stage
	emitStage(p.sink, p.files, stage, StatusWorking, nil, 0)
}

func emitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageParse, Status: StatusQueued})
	}
}

func emitStage(sink ProgressSink, files []string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	}
}
