package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"mycompiler/internal/ast"
	"mycompiler/internal/diag"
	"mycompiler/internal/lexer"
	"mycompiler/internal/parser"
	"mycompiler/internal/source"
	"mycompiler/internal/token"
	"mycompiler/internal/trace"
)

// countingReporter forwards diagnostics and counts errors among them.
type countingReporter struct {
	next   diag.Reporter
	errors int
}

func (r *countingReporter) Report(d diag.Diagnostic) {
	if d.Severity >= diag.SevError {
		r.errors++
	}
	r.next.Report(d)
}

// frontEnd lexes and parses file. Lexical errors stop before parsing,
// and any error stops before lowering: the returned tree is complete or nil.
func frontEnd(ctx context.Context, file *source.File, reporter diag.Reporter, maxDiagnostics int, ph *phases) (*ast.Block, bool) {
	h := ph.begin(PhaseLex)
	_, span := trace.Start(ctx, trace.ScopePass, PhaseLex)
	counter := &countingReporter{next: reporter}
	toks := lexer.New(file, lexer.Options{Reporter: counter}).All()
	span.WithExtra("tokens", fmt.Sprint(len(toks))).End("")
	h.end(fmt.Sprintf("tokens=%d", len(toks)), counter.errors > 0)
	if counter.errors > 0 {
		return nil, false
	}

	h = ph.begin(PhaseParse)
	_, span = trace.Start(ctx, trace.ScopePass, PhaseParse)
	root, ok := parseFile(file, reporter, maxDiagnostics)
	span.End("")
	h.end("", !ok)
	return root, ok
}

func parseFile(file *source.File, reporter diag.Reporter, maxDiagnostics int) (*ast.Block, bool) {
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		maxErrors = 0
	}
	res := parser.ParseFile(file, parser.Options{MaxErrors: maxErrors, Reporter: reporter})
	return res.Root, res.Root != nil
}

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize lexes path to EOF, keeping lexical diagnostics.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	tokens := lexer.New(file, lexer.Options{Reporter: &diag.BagReporter{Bag: bag}}).All()
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Root    *ast.Block // nil on error
	Bag     *diag.Bag
}

// Parse builds the syntax tree of path.
func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(maxDiagnostics)
	root, _ := parseFile(file, &diag.BagReporter{Bag: bag}, maxDiagnostics)
	bag.Sort()
	return &ParseResult{
		FileSet: fs,
		File:    file,
		Root:    root,
		Bag:     bag,
	}, nil
}
