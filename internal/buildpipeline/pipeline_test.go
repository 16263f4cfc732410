package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/backend"
	"mycompiler/internal/locmap"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) { s.events = append(s.events, ev) }

func (s *recordingSink) overall() []string {
	var out []string
	for _, ev := range s.events {
		if ev.File == "" {
			out = append(out, string(ev.Stage)+":"+string(ev.Status))
		}
	}
	return out
}

func writeProgram(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.mcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// fakeGo stands in for the go command and creates the -o target.
func fakeGo(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in for the go command")
	}
	path := filepath.Join(t.TempDir(), "fakego")
	script := "#!/bin/sh\necho run >> \"$(dirname \"$0\")/calls\"\ntouch \"$3\"\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))
	return path
}

func goCalls(t *testing.T, goBin string) int {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(goBin), "calls"))
	if errors.Is(err, os.ErrNotExist) {
		return 0
	}
	require.NoError(t, err)
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}

func TestCompileLowerOnlyEvents(t *testing.T) {
	path := writeProgram(t, "int x = 2;\nprint x * 3;\n")
	sink := &recordingSink{}
	res, err := Compile(context.Background(), &CompileRequest{
		TargetPath: path,
		Backend:    BackendGo,
		Progress:   sink,
		Files:      []string{path},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Driver)
	assert.Nil(t, res.Driver.Backend)
	assert.NotEmpty(t, res.Driver.Units)

	require.NotEmpty(t, sink.events)
	assert.Equal(t, Event{File: path, Stage: StageParse, Status: StatusQueued}, sink.events[0])
	assert.Equal(t, []string{
		"parse:working",
		"parse:done",
		"lower:working",
		"lower:done",
	}, sink.overall())
	assert.True(t, res.Timings.Has(StageParse))
	assert.True(t, res.Timings.Has(StageLower))
	assert.False(t, res.Timings.Has(StageCheck))
}

func TestCompileDiagnostics(t *testing.T) {
	path := writeProgram(t, "int a, b = 1, 2, 3;\n")
	sink := &recordingSink{}
	res, err := Compile(context.Background(), &CompileRequest{TargetPath: path, Progress: sink})
	require.ErrorIs(t, err, ErrDiagnostics)
	require.NotNil(t, res.Driver)
	assert.True(t, res.Driver.Failed())
	overall := sink.overall()
	assert.Equal(t, "lower:error", overall[len(overall)-1])
}

func TestCompileRequestValidation(t *testing.T) {
	_, err := Compile(context.Background(), nil)
	require.Error(t, err)
	_, err = Compile(context.Background(), &CompileRequest{})
	require.Error(t, err)
	_, err = Compile(context.Background(), &CompileRequest{TargetPath: "x.mcl", Backend: "llvm"})
	require.ErrorContains(t, err, "unsupported backend")
}

func TestCompileCheckBackend(t *testing.T) {
	if testing.Short() {
		t.Skip("type checking reads the standard library from GOROOT")
	}
	path := writeProgram(t, "print 1;\n")
	sink := &recordingSink{}
	res, err := Compile(context.Background(), &CompileRequest{TargetPath: path, Progress: sink})
	require.NoError(t, err)
	require.NotNil(t, res.Driver.Backend)
	assert.True(t, res.Driver.Backend.OK)
	overall := sink.overall()
	assert.Equal(t, "check:done", overall[len(overall)-1])
}

func TestBuildWritesUnitsAndCaches(t *testing.T) {
	goBin := fakeGo(t)
	path := writeProgram(t, "int x = 2;\nprint x;\n")
	root := t.TempDir()
	req := &BuildRequest{
		CompileRequest: CompileRequest{TargetPath: path},
		OutputRoot:     root,
		GoBin:          goBin,
	}

	first, err := Build(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, filepath.Join(root, "target", "debug", "prog"), first.OutputPath)
	assert.FileExists(t, first.OutputPath)
	assert.NoDirExists(t, first.TmpDir)
	assert.Equal(t, 1, goCalls(t, goBin))

	mainPath := filepath.Join(first.GenDir, backend.MainUnit)
	assert.FileExists(t, mainPath)
	assert.FileExists(t, filepath.Join(first.GenDir, "mcl_array.go"))
	assert.NoFileExists(t, filepath.Join(first.GenDir, "mcl_array.go"+locmap.Ext))

	m, err := locmap.ReadFile(mainPath + locmap.Ext)
	require.NoError(t, err)
	assert.Equal(t, backend.MainUnit, m.Unit())
	assert.Equal(t, "prog.mcl", filepath.Base(m.Origin()))
	assert.NotZero(t, m.Len())

	second, err := Build(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, goCalls(t, goBin))

	req.Force = true
	third, err := Build(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, 2, goCalls(t, goBin))
}

func TestBuildStopsOnDiagnostics(t *testing.T) {
	goBin := fakeGo(t)
	path := writeProgram(t, "print ;\n")
	res, err := Build(context.Background(), &BuildRequest{
		CompileRequest: CompileRequest{TargetPath: path},
		OutputRoot:     t.TempDir(),
		GoBin:          goBin,
	})
	require.ErrorIs(t, err, ErrDiagnostics)
	assert.Empty(t, res.OutputPath)
	assert.Equal(t, 0, goCalls(t, goBin))
}

func TestDefaultOutputName(t *testing.T) {
	assert.Equal(t, "prog", defaultOutputName("/tmp/prog.mcl"))
	assert.Equal(t, "main", defaultOutputName("main"))
	assert.Equal(t, "a.out", defaultOutputName(""))
}
