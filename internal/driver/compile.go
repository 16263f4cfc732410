package driver

import (
	"context"
	"errors"
	"fmt"

	"mycompiler/internal/ast"
	"mycompiler/internal/backend"
	"mycompiler/internal/diag"
	"mycompiler/internal/diagfmt"
	"mycompiler/internal/locmap"
	"mycompiler/internal/lower"
	"mycompiler/internal/observ"
	"mycompiler/internal/source"
	"mycompiler/internal/stdlib"
	"mycompiler/internal/trace"
)

// Stage limits how far Compile goes.
type Stage uint8

const (
	// StageBackend runs the whole pipeline.
	StageBackend Stage = iota
	StageParse
	// StageLower stops once the program is lowered and mapped.
	StageLower
)

// Options configures one compilation.
type Options struct {
	MaxDiagnostics int
	// Stdlib selects optional library units by glob; nil selects all.
	Stdlib []string
	// Backend compiles the generated units. Nil means an in-process
	// go/types check.
	Backend backend.Backend
	// Output is the artifact path handed to the backend.
	Output        string
	Stop          Stage
	BaseDir       string
	EnableTimings bool
	PhaseObserver PhaseObserver
}

// GenUnit is one Go file handed to the backend.
type GenUnit struct {
	Name   string
	Source []byte
	// Map is nil for runtime units, which are not generated from source.
	Map *locmap.Map
	// Origin is the source file the unit was lowered from.
	Origin string
}

// Result of one compilation.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	Root    *ast.Block
	// Bag holds front-end and lowering diagnostics.
	Bag     *diag.Bag
	Lowered *lower.Result
	Units   []GenUnit
	Backend *backend.Result
	// Items are all findings in report order, backend ones already mapped
	// back to source where possible.
	Items        []diagfmt.Item
	TimingReport observ.Report
}

// Failed reports whether the compilation produced an error.
func (r *Result) Failed() bool {
	if r == nil {
		return true
	}
	if r.Backend != nil && !r.Backend.OK {
		return true
	}
	return diagfmt.Failed(r.Items)
}

// Unit returns the generated unit called name.
func (r *Result) Unit(name string) (GenUnit, bool) {
	for _, u := range r.Units {
		if u.Name == name {
			return u, true
		}
	}
	return GenUnit{}, false
}

// Compile loads path and runs it through the pipeline.
func Compile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	if opts.BaseDir != "" {
		fs.SetBaseDir(opts.BaseDir)
	}
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return compileFile(ctx, fs, id, opts)
}

// CompileSource compiles in-memory content registered under name.
func CompileSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	if opts.BaseDir != "" {
		fs.SetBaseDir(opts.BaseDir)
	}
	return compileFile(ctx, fs, fs.AddVirtual(name, content), opts)
}

func compileFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	file := fs.Get(id)
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile")
	span.WithExtra("file", file.Path)
	defer span.End("")

	ph := &phases{observer: opts.PhaseObserver}
	if opts.EnableTimings {
		ph.timer = observ.NewTimer()
	}
	res := &Result{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	defer func() {
		if ph.timer != nil {
			res.TimingReport = ph.timer.Report()
		}
	}()

	err := compileUnits(ctx, res, ph, opts)
	res.Bag.Sort()
	items := make([]diagfmt.Item, 0, res.Bag.Len())
	for _, d := range res.Bag.Items() {
		items = append(items, diagfmt.FromDiagnostic(d))
	}
	res.Items = append(items, res.Items...)
	return res, err
}

// compileUnits fills res stage by stage. Backend items are appended to
// res.Items; front-end diagnostics stay in res.Bag.
func compileUnits(ctx context.Context, res *Result, ph *phases, opts Options) error {
	reporter := diag.NewDedupReporter(&diag.BagReporter{Bag: res.Bag})

	root, ok := frontEnd(ctx, res.File, reporter, opts.MaxDiagnostics, ph)
	if !ok {
		return nil
	}
	res.Root = root
	if opts.Stop == StageParse {
		return nil
	}

	h := ph.begin(PhaseLower)
	lowered, err := lower.File(ctx, root, lower.Options{Mode: lower.ModeProgram, Reporter: reporter})
	var ie *lower.InternalError
	if errors.As(err, &ie) {
		h.end("fault", true)
		return err
	}
	h.end(fmt.Sprintf("nodes=%d", len(lowered.Annotations)), err != nil)
	res.Lowered = lowered

	h = ph.begin(PhaseLocmap)
	_, span := trace.Start(ctx, trace.ScopePass, PhaseLocmap)
	m, src, err := locmap.Build(backend.MainUnit, lowered)
	span.End("")
	if err != nil {
		h.end("", true)
		return fmt.Errorf("generated code: %w", err)
	}
	h.end(fmt.Sprintf("entries=%d", m.Len()), false)
	m.SetOrigin(res.File.Path)
	res.Units = append(res.Units, GenUnit{Name: backend.MainUnit, Source: src, Map: m, Origin: res.File.Path})

	h = ph.begin(PhaseLibrary)
	lib, err := libraryUnits(ctx, res.FileSet, reporter, opts.Stdlib)
	h.end(fmt.Sprintf("units=%d", len(lib)), err != nil)
	if err != nil {
		return err
	}
	res.Units = append(res.Units, lib...)

	if opts.Stop == StageLower || res.Bag.HasErrors() {
		return nil
	}

	return runBackend(ctx, res, ph, opts.Backend, opts.Output, opts.MaxDiagnostics)
}

// RunBackend compiles the units of a lowered result with be and appends
// the mapped findings to res.Items. It is used when Compile stopped at
// StageLower, for example when the build step is decided separately.
func RunBackend(ctx context.Context, res *Result, be backend.Backend, output string) error {
	if res == nil || len(res.Units) == 0 {
		return errors.New("driver: nothing lowered")
	}
	if res.Backend != nil {
		return errors.New("driver: backend already ran")
	}
	return runBackend(ctx, res, &phases{}, be, output, 0)
}

func runBackend(ctx context.Context, res *Result, ph *phases, be backend.Backend, output string, maxDiagnostics int) error {
	if be == nil {
		be = &backend.TypeChecker{Max: maxDiagnostics}
	}
	req := backend.Request{Output: output}
	for _, u := range res.Units {
		req.Units = append(req.Units, backend.Unit{Name: u.Name, Source: u.Source})
	}
	h := ph.begin(PhaseBackend)
	br, err := be.Compile(ctx, req)
	if err != nil {
		h.end("", true)
		return fmt.Errorf("backend: %w", err)
	}
	h.end(fmt.Sprintf("diagnostics=%d", len(br.Diagnostics)), !br.OK)
	res.Backend = br
	res.Items = append(res.Items, mapDiagnostics(br.Diagnostics, res.Units)...)
	return nil
}

// libraryUnits prepares the selected stdlib units. Source units are
// parsed and lowered in library mode like user code.
func libraryUnits(ctx context.Context, fs *source.FileSet, reporter diag.Reporter, patterns []string) ([]GenUnit, error) {
	units, err := stdlib.Select(patterns)
	if err != nil {
		return nil, err
	}
	out := make([]GenUnit, 0, len(units))
	for _, u := range units {
		if u.Kind == stdlib.KindRuntime {
			out = append(out, GenUnit{Name: u.FileName(), Source: u.Source})
			continue
		}
		uctx, span := trace.Start(ctx, trace.ScopeModule, u.Name)
		gu, err := lowerLibrary(uctx, fs, u, reporter)
		if err != nil {
			span.End("error")
			return nil, fmt.Errorf("stdlib unit %s: %w", u.Name, err)
		}
		span.End("")
		out = append(out, gu)
	}
	return out, nil
}

func lowerLibrary(ctx context.Context, fs *source.FileSet, u stdlib.Unit, reporter diag.Reporter) (GenUnit, error) {
	id := fs.AddVirtual("stdlib/"+u.FileName(), u.Source)
	root, ok := parseFile(fs.Get(id), reporter, 0)
	if !ok {
		return GenUnit{}, errors.New("does not parse")
	}
	lowered, err := lower.File(ctx, root, lower.Options{Mode: lower.ModeLibrary, Reporter: reporter})
	if err != nil {
		return GenUnit{}, err
	}
	m, src, err := locmap.Build(u.GoName(), lowered)
	if err != nil {
		return GenUnit{}, err
	}
	m.SetOrigin(fs.Get(id).Path)
	return GenUnit{Name: u.GoName(), Source: src, Map: m, Origin: fs.Get(id).Path}, nil
}

// mapDiagnostics resolves backend findings through the unit maps. Findings
// in runtime units or outside any mapped node stay unlocated.
func mapDiagnostics(ds []backend.Diagnostic, units []GenUnit) []diagfmt.Item {
	maps := make(map[string]*locmap.Map, len(units))
	for _, u := range units {
		if u.Map != nil {
			maps[u.Name] = u.Map
		}
	}
	items := make([]diagfmt.Item, 0, len(ds))
	for _, d := range ds {
		var loc diagfmt.Locator
		if m, ok := maps[d.Unit]; ok {
			loc = m
		}
		items = append(items, diagfmt.FromBackend(d, loc))
	}
	return items
}
