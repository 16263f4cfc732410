package backend

import (
	"context"
	"errors"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"strconv"

	"mycompiler/internal/diag"
	"mycompiler/internal/locmap"
	"mycompiler/internal/trace"
)

// TypeChecker checks units with go/types without invoking the toolchain.
type TypeChecker struct {
	// Importer resolves imported packages. Nil means the source importer,
	// which reads the standard library from GOROOT.
	Importer types.Importer
	// Max stops collecting after this many diagnostics; 0 is unlimited.
	Max int
}

func (c *TypeChecker) Compile(ctx context.Context, req Request) (*Result, error) {
	_, span := trace.Start(ctx, trace.ScopePass, "check")
	defer span.End("")

	if len(req.Units) == 0 {
		return nil, errors.New("backend: no units to check")
	}
	fset := token.NewFileSet()
	files := make([]*ast.File, 0, len(req.Units))
	var diags []Diagnostic
	for _, u := range req.Units {
		f, err := parser.ParseFile(fset, u.Name, u.Source, parser.SkipObjectResolution)
		if err != nil {
			diags = append(diags, syntaxDiagnostics(u.Name, err)...)
			continue
		}
		files = append(files, f)
	}
	if len(diags) > 0 {
		return newResult(diags), nil
	}

	imp := c.Importer
	if imp == nil {
		imp = importer.ForCompiler(fset, "source", nil)
	}
	conf := types.Config{
		Importer: imp,
		Error: func(err error) {
			if c.Max > 0 && len(diags) >= c.Max {
				return
			}
			var terr types.Error
			if !errors.As(err, &terr) {
				diags = append(diags, classified("", locmap.Range{}, false, err.Error()))
				return
			}
			pos := terr.Fset.Position(terr.Pos)
			diags = append(diags, classified(pos.Filename, locmap.At(pos.Offset), pos.IsValid(), terr.Msg))
		},
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	// errors are delivered through conf.Error
	_, _ = conf.Check("main", fset, files, nil)
	span.WithExtra("diagnostics", strconv.Itoa(len(diags)))
	return newResult(diags), nil
}

// syntaxDiagnostics reports parse errors in generated code. They always
// point at a lowering defect, never at the user's program.
func syntaxDiagnostics(unit string, err error) []Diagnostic {
	var list scanner.ErrorList
	if !errors.As(err, &list) {
		return []Diagnostic{{
			Severity: diag.SevError,
			Code:     diag.BackendSyntax,
			Unit:     unit,
			Args:     []string{err.Error()},
			Message:  err.Error(),
		}}
	}
	out := make([]Diagnostic, 0, len(list))
	for _, e := range list {
		out = append(out, Diagnostic{
			Severity: diag.SevError,
			Code:     diag.BackendSyntax,
			Unit:     unit,
			Range:    locmap.At(e.Pos.Offset),
			Located:  true,
			Args:     []string{e.Msg},
			Message:  e.Msg,
		})
	}
	return out
}
