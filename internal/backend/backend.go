package backend

import (
	"context"

	"mycompiler/internal/diag"
	"mycompiler/internal/locmap"
)

// MainUnit is the file name of the lowered program.
const MainUnit = "main.go"

// Unit is one Go source file of the generated package.
type Unit struct {
	Name   string
	Source []byte
}

// Diagnostic is a problem reported against generated code. Range is in
// bytes of the named unit; tools that only report a position produce an
// empty range.
type Diagnostic struct {
	Severity diag.Severity
	Code     diag.Code
	Unit     string
	Range    locmap.Range
	Located  bool
	Args     []string
	Message  string // tool wording
}

// Request describes one compilation.
type Request struct {
	Units  []Unit
	Output string // binary path; GoBuild only
}

// Result of a compilation.
type Result struct {
	Diagnostics []Diagnostic
	OK          bool
	Artifact    string
}

// Backend turns generated units into diagnostics and, optionally, a binary.
// An error return means the backend itself failed, not the program.
type Backend interface {
	Compile(ctx context.Context, req Request) (*Result, error)
}

func newResult(diags []Diagnostic) *Result {
	res := &Result{Diagnostics: diags, OK: true}
	for _, d := range diags {
		if d.Severity >= diag.SevError {
			res.OK = false
			break
		}
	}
	return res
}
