package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mycompiler/internal/backend"
	"mycompiler/internal/diag"
)

// recordingBackend answers with canned diagnostics and remembers requests.
type recordingBackend struct {
	calls   int
	last    backend.Request
	respond func(backend.Request) []backend.Diagnostic
}

func (b *recordingBackend) Compile(_ context.Context, req backend.Request) (*backend.Result, error) {
	b.calls++
	b.last = req
	var ds []backend.Diagnostic
	if b.respond != nil {
		ds = b.respond(req)
	}
	ok := true
	for _, d := range ds {
		if d.Severity >= diag.SevError {
			ok = false
		}
	}
	return &backend.Result{Diagnostics: ds, OK: ok}, nil
}

func indexOf(s, sub string) int {
	return strings.Index(s, sub)
}

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.mcl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
