package lower

import (
	goast "go/ast"

	"mycompiler/internal/source"
)

type frameKind uint8

const (
	frameEntry frameKind = iota + 1 // program top level
	frameBlock                      // nested block under construction
	frameFunc                       // function body under construction
)

func (k frameKind) String() string {
	switch k {
	case frameEntry:
		return "entry"
	case frameBlock:
		return "block"
	case frameFunc:
		return "function"
	}
	return "unknown"
}

// frame is one open container on the context stack.
type frame struct {
	kind  frameKind
	span  source.Span
	stmts []goast.Stmt
}

func (l *lowerer) pushFrame(kind frameKind, sp source.Span) {
	l.frames = append(l.frames, &frame{kind: kind, span: sp})
}

// popFrame closes the innermost container, which must be of kind want.
func (l *lowerer) popFrame(want frameKind) *frame {
	n := len(l.frames)
	if n == 0 {
		fault(source.Span{}, "pop %s frame from empty context stack", want)
	}
	top := l.frames[n-1]
	if top.kind != want {
		fault(top.span, "pop %s frame, innermost is %s", want, top.kind)
	}
	l.frames = l.frames[:n-1]
	return top
}

func (l *lowerer) current() *frame {
	if len(l.frames) == 0 {
		return nil
	}
	return l.frames[len(l.frames)-1]
}

// emit appends a generated statement to the innermost open container.
func (l *lowerer) emit(st goast.Stmt, sp source.Span) {
	top := l.current()
	if top == nil {
		fault(sp, "statement emitted outside any context")
	}
	switch top.kind {
	case frameEntry, frameBlock, frameFunc:
		top.stmts = append(top.stmts, st)
	default:
		fault(sp, "statement emitted into unrecognized context %d", top.kind)
	}
}
