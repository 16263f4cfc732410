package backend_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/backend"
	"mycompiler/internal/diag"
)

func fakeGo(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in for the go command")
	}
	path := filepath.Join(t.TempDir(), "fakego")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o700))
	return path
}

func TestGoBuildReportsCompilerErrors(t *testing.T) {
	goBin := fakeGo(t, "echo '# program' 1>&2\necho './main.go:3:2: undefined: x' 1>&2\nexit 1\n")
	work := t.TempDir()
	g := &backend.GoBuild{GoBin: goBin, WorkDir: work}
	res, err := g.Compile(context.Background(), backend.Request{
		Units:  []backend.Unit{{Name: backend.MainUnit, Source: []byte("package main\n\nfunc main() {\n\tx = 1\n}\n")}},
		Output: filepath.Join(work, "prog"),
	})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Empty(t, res.Artifact)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.BackendUnknownIdentifier, res.Diagnostics[0].Code)
	assert.FileExists(t, filepath.Join(work, "go.mod"))
	assert.FileExists(t, filepath.Join(work, backend.MainUnit))
}

func TestGoBuildUnparsedFailure(t *testing.T) {
	goBin := fakeGo(t, "echo 'go: something broke'\nexit 2\n")
	g := &backend.GoBuild{GoBin: goBin}
	res, err := g.Compile(context.Background(), backend.Request{
		Units:  []backend.Unit{{Name: backend.MainUnit, Source: []byte("package main\n")}},
		Output: filepath.Join(t.TempDir(), "prog"),
	})
	require.NoError(t, err)
	assert.False(t, res.OK)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.BackendToolchain, res.Diagnostics[0].Code)
	assert.Equal(t, "go: something broke", res.Diagnostics[0].Message)
}

func TestGoBuildSuccess(t *testing.T) {
	goBin := fakeGo(t, "exit 0\n")
	out := filepath.Join(t.TempDir(), "prog")
	g := &backend.GoBuild{GoBin: goBin}
	res, err := g.Compile(context.Background(), backend.Request{
		Units:  []backend.Unit{{Name: backend.MainUnit, Source: []byte("package main\n")}},
		Output: out,
	})
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, out, res.Artifact)
}

func TestGoBuildToolchainMissing(t *testing.T) {
	g := &backend.GoBuild{GoBin: filepath.Join(t.TempDir(), "no-such-go")}
	res, err := g.Compile(context.Background(), backend.Request{Output: "x"})
	require.NoError(t, err)
	assert.False(t, res.OK)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, diag.BackendToolchainUnavailable, res.Diagnostics[0].Code)
}
