package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/backend"
	"mycompiler/internal/diag"
	"mycompiler/internal/diagfmt"
	"mycompiler/internal/driver"
	"mycompiler/internal/locmap"
	"mycompiler/internal/trace"
)

func compile(t *testing.T, src string, opts driver.Options) *driver.Result {
	t.Helper()
	res, err := driver.CompileSource(context.Background(), "prog.mcl", []byte(src), opts)
	require.NoError(t, err)
	return res
}

func lines(res *driver.Result) []string {
	f := diagfmt.New(res.FileSet, diagfmt.Options{})
	return f.Lines(diagfmt.Surface(res.Items, diag.SevWarning))
}

func needTypes(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("type checking reads the standard library from GOROOT")
	}
}

func TestPrintScenario(t *testing.T) {
	needTypes(t)
	res := compile(t, "print 1.5; print 100;", driver.Options{})
	assert.False(t, res.Failed(), "%v", lines(res))
	assert.Empty(t, lines(res))

	main, ok := res.Unit(backend.MainUnit)
	require.True(t, ok)
	assert.Contains(t, string(main.Source), "fmt.Println(1.5)")
	assert.Contains(t, string(main.Source), "fmt.Println(100)")
}

func TestRepeatScenario(t *testing.T) {
	needTypes(t)
	res := compile(t, "repeat 3 print 1;", driver.Options{})
	assert.False(t, res.Failed(), "%v", lines(res))
	main, _ := res.Unit(backend.MainUnit)
	assert.Contains(t, string(main.Source), "for __rep0 < 3 {")
}

func TestUnknownIdentifierScenario(t *testing.T) {
	needTypes(t)
	res := compile(t, "print y;", driver.Options{})
	require.True(t, res.Failed())
	assert.Equal(t, []string{"prog.mcl:1:7-1:8 Error 103: Unknown identifier 'y'"}, lines(res))
}

func TestTypeMismatchIsLocated(t *testing.T) {
	needTypes(t)
	res := compile(t, "int x = 1;\nx = \"text\";", driver.Options{})
	require.True(t, res.Failed())
	require.NotEmpty(t, res.Items)
	it := res.Items[0]
	assert.Equal(t, diag.BackendCannotConvert, it.Code)
	require.True(t, it.Located)
	loc := res.FileSet.Locate(it.Span)
	assert.Equal(t, uint32(2), loc.Start.Line)
}

func TestPreludeIsAvailable(t *testing.T) {
	needTypes(t)
	res := compile(t, "print Square(4) + SumTo(3);", driver.Options{})
	assert.False(t, res.Failed(), "%v", lines(res))
}

func TestArityMismatchStopsBeforeBackend(t *testing.T) {
	be := &recordingBackend{}
	res := compile(t, "(int a, int b) = (1, 2, 3);", driver.Options{Backend: be})
	assert.True(t, res.Failed())
	assert.Zero(t, be.calls)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "prog.mcl:1:1-1:28 Error 4001: Tuple and array sizes do not match (2 names, 3 values)", lines(res)[0])
}

func TestSyntaxErrorStopsBeforeLowering(t *testing.T) {
	be := &recordingBackend{}
	res := compile(t, "print ;", driver.Options{Backend: be})
	assert.True(t, res.Failed())
	assert.Nil(t, res.Root)
	assert.Nil(t, res.Lowered)
	assert.Empty(t, res.Units)
	assert.Zero(t, be.calls)
}

func TestLexicalErrorStopsBeforeParsing(t *testing.T) {
	res := compile(t, "print 1 $ 2;", driver.Options{Backend: &recordingBackend{}})
	require.True(t, res.Failed())
	for _, it := range res.Items {
		assert.Less(t, int(it.Code), 2000, "only lexical diagnostics expected, got %d", it.Code)
	}
}

func TestStopAfterLower(t *testing.T) {
	be := &recordingBackend{}
	res := compile(t, "print 1;", driver.Options{Backend: be, Stop: driver.StageLower})
	assert.Zero(t, be.calls)
	assert.Nil(t, res.Backend)

	var names []string
	for _, u := range res.Units {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"main.go", "mcl_array.go", "mcl_prelude.go", "mcl_stopwatch.go", "mcl_tuple.go"}, names)

	prelude, ok := res.Unit("mcl_prelude.go")
	require.True(t, ok)
	assert.NotNil(t, prelude.Map)
	assert.Equal(t, "stdlib/prelude.mcl", prelude.Origin)
	array, _ := res.Unit("mcl_array.go")
	assert.Nil(t, array.Map)

	require.NoError(t, driver.RunBackend(context.Background(), res, be, ""))
	assert.Equal(t, 1, be.calls)
	assert.Len(t, be.last.Units, 5)
	assert.Error(t, driver.RunBackend(context.Background(), res, be, ""))
}

func TestStdlibSelection(t *testing.T) {
	res := compile(t, "print 1;", driver.Options{Stop: driver.StageLower, Stdlib: []string{}})
	var names []string
	for _, u := range res.Units {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"main.go", "mcl_array.go", "mcl_tuple.go"}, names)

	_, err := driver.CompileSource(context.Background(), "prog.mcl", []byte("print 1;"), driver.Options{Stdlib: []string{"[bad"}})
	require.Error(t, err)
}

func TestBackendFindingsAreMapped(t *testing.T) {
	be := &recordingBackend{
		respond: func(req backend.Request) []backend.Diagnostic {
			src := string(req.Units[0].Source)
			off := indexOf(src, "fmt.Println(1)")
			return []backend.Diagnostic{
				{Severity: diag.SevError, Code: diag.BackendInvalidOperation, Unit: backend.MainUnit, Range: locmap.At(off + len("fmt.Println(")), Located: true, Args: []string{"bad"}},
				{Severity: diag.SevError, Code: diag.BackendToolchain, Unit: "mcl_array.go", Range: locmap.At(3), Located: true, Message: "runtime"},
				{Severity: diag.SevWarning, Code: diag.BackendUnusedVariable, Unit: backend.MainUnit, Args: []string{"z"}},
			}
		},
	}
	res := compile(t, "int z = 0;\nprint 1;", driver.Options{Backend: be})
	assert.Equal(t, []string{
		"prog.mcl:2:7-2:8 Error 19: Invalid operation: bad",
		"Error 9000: runtime",
		"Warning 168: Variable 'z' is declared but never used",
	}, lines(res))
	assert.True(t, res.Failed())
}

func TestTimingsAndPhases(t *testing.T) {
	var events []driver.PhaseEvent
	res := compile(t, "print 1;", driver.Options{
		Backend:       &recordingBackend{},
		EnableTimings: true,
		PhaseObserver: func(ev driver.PhaseEvent) { events = append(events, ev) },
	})
	var phases []string
	for _, p := range res.TimingReport.Phases {
		phases = append(phases, p.Name)
	}
	want := []string{driver.PhaseLex, driver.PhaseParse, driver.PhaseLower, driver.PhaseLocmap, driver.PhaseLibrary, driver.PhaseBackend}
	assert.Equal(t, want, phases)
	require.Len(t, events, 2*len(want))
	for i, ev := range events {
		assert.Equal(t, want[i/2], ev.Name)
		assert.Equal(t, driver.PhaseStatus(i%2), ev.Status)
	}
}

func TestTraceSpans(t *testing.T) {
	ring := trace.NewRingTracer(512, trace.LevelDetail)
	ctx := trace.WithTracer(context.Background(), ring)
	_, err := driver.CompileSource(ctx, "prog.mcl", []byte("print 1;"), driver.Options{Backend: &recordingBackend{}})
	require.NoError(t, err)

	seen := map[string]bool{}
	ids := map[string]uint64{}
	parents := map[string]uint64{}
	for _, ev := range ring.Snapshot() {
		seen[ev.Name] = true
		if ev.Kind == trace.KindSpanBegin {
			ids[ev.Name] = ev.SpanID
			parents[ev.Name] = ev.ParentID
		}
	}
	assert.Equal(t, ids["compile"], parents["lex"], "passes nest under compile")
	assert.Equal(t, ids["compile"], parents["prelude"])
	for _, name := range []string{"compile", "lex", "parse", "lower", "locmap", "prelude"} {
		assert.True(t, seen[name], "no %q span", name)
	}
}

func TestTokenizeAndParse(t *testing.T) {
	path := writeSource(t, "print 1;\n")
	toks, err := driver.Tokenize(path, 0)
	require.NoError(t, err)
	assert.Len(t, toks.Tokens, 4)
	assert.Zero(t, toks.Bag.Len())

	parsed, err := driver.Parse(path, 0)
	require.NoError(t, err)
	require.NotNil(t, parsed.Root)
	assert.True(t, parsed.Root.IsEntry)

	_, err = driver.Parse(path+".missing", 0)
	require.Error(t, err)
}
