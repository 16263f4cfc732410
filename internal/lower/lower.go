package lower

import (
	"context"
	"errors"
	"fmt"
	goast "go/ast"
	"go/token"

	"mycompiler/internal/ast"
	"mycompiler/internal/diag"
	"mycompiler/internal/source"
	"mycompiler/internal/trace"
)

// Mode selects how top-level statements are assembled.
type Mode uint8

const (
	// ModeProgram wraps top-level statements into func main.
	ModeProgram Mode = iota
	// ModeLibrary wraps them into func init and emits no main.
	ModeLibrary
)

func (m Mode) String() string {
	if m == ModeLibrary {
		return "library"
	}
	return "program"
}

// Options configure a lowering run.
type Options struct {
	Mode     Mode
	Package  string // defaults to "main"
	Reporter diag.Reporter
}

// NodeID identifies a generated node within one unit. IDs start at 1 and
// follow creation order.
type NodeID uint32

// Annotation links a generated node to the source span it came from.
type Annotation struct {
	ID   NodeID
	Node goast.Node
	Span source.Span
}

// Result is one lowered unit.
type Result struct {
	File        *goast.File
	Annotations []Annotation
	Imports     []string
	Synthetic   int // synthetic names allocated
}

// Span returns the span annotated for n, if any. The first annotation wins.
func (r *Result) Span(n goast.Node) (source.Span, bool) {
	for _, a := range r.Annotations {
		if a.Node == n {
			return a.Span, true
		}
	}
	return source.Span{}, false
}

type lowerer struct {
	opts   Options
	tracer trace.Tracer

	values []goast.Expr
	frames []*frame

	counter int
	nextID  NodeID
	annots  []Annotation

	imports   []importRef
	usedPkgs  map[string]struct{}
	funcs     []*goast.FuncDecl
	arityErrs []error
	file      *goast.File
}

type importRef struct {
	path     string
	name     string // last path segment, the qualifier used in code
	span     source.Span
	explicit bool
}

// File lowers the entry block of a parsed program.
//
// On an internal fault it returns (nil, *InternalError). Tuple arity
// mismatches are reported to opts.Reporter and joined into the returned
// error; the result is still returned so callers can inspect it, but it
// must not be compiled.
func File(ctx context.Context, root *ast.Block, opts Options) (res *Result, err error) {
	if root == nil {
		return nil, &InternalError{Msg: "nil program root"}
	}
	if opts.Package == "" {
		opts.Package = "main"
	}
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	t := trace.FromContext(ctx)
	_, span := trace.Start(ctx, trace.ScopePass, "lower")
	span.WithExtra("mode", opts.Mode.String())

	l := &lowerer{
		opts:     opts,
		tracer:   t,
		usedPkgs: make(map[string]struct{}),
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			diag.ReportError(opts.Reporter, diag.LowerInternalFault, ie.Span, ie.Error()).Emit()
			span.End("fault")
			res, err = nil, ie
		}
	}()

	l.lowerEntry(root)
	if len(l.values) != 0 {
		fault(root.Span(), "%d expression(s) left on stack", len(l.values))
	}
	if len(l.frames) != 0 {
		fault(root.Span(), "%d context frame(s) left open", len(l.frames))
	}

	res = &Result{
		File:        l.file,
		Annotations: l.annots,
		Imports:     l.importPaths(),
		Synthetic:   l.counter,
	}
	span.WithExtra("nodes", fmt.Sprint(len(l.annots)))
	if len(l.arityErrs) > 0 {
		span.End("arity")
		return res, errors.Join(l.arityErrs...)
	}
	span.End("ok")
	return res, nil
}

// annotate records the origin of a freshly created node and returns it.
func annotate[N goast.Node](l *lowerer, n N, sp source.Span) N {
	l.nextID++
	l.annots = append(l.annots, Annotation{ID: l.nextID, Node: n, Span: sp})
	return n
}

func (l *lowerer) ident(name string, sp source.Span) *goast.Ident {
	return annotate(l, goast.NewIdent(name), sp)
}

func (l *lowerer) intLit(v int64, sp source.Span) goast.Expr {
	if v < 0 {
		lit := annotate(l, &goast.BasicLit{Kind: token.INT, Value: fmt.Sprint(-v)}, sp)
		return annotate(l, &goast.UnaryExpr{Op: token.SUB, X: lit}, sp)
	}
	return annotate(l, &goast.BasicLit{Kind: token.INT, Value: fmt.Sprint(v)}, sp)
}

// synthetic allocates the next counter value for __rep/__lim names.
func (l *lowerer) synthetic() int {
	n := l.counter
	l.counter++
	return n
}

func (l *lowerer) node(n ast.Node) {
	trace.Point(l.tracer, trace.ScopeNode, n.Kind().String(), n.Span().String())
}
