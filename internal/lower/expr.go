package lower

import (
	goast "go/ast"
	"go/token"
	"strconv"
	"strings"

	"mycompiler/internal/ast"
	"mycompiler/internal/source"
)

var binaryTokens = [...]token.Token{
	ast.OpAdd: token.ADD,
	ast.OpSub: token.SUB,
	ast.OpMul: token.MUL,
	ast.OpDiv: token.QUO,
	ast.OpRem: token.REM,
}

// lowerExpr pushes exactly one value.
func (l *lowerer) lowerExpr(e ast.Expr) {
	if e == nil {
		fault(source.Span{}, "nil expression")
	}
	l.node(e)
	depth := len(l.values)

	switch e := e.(type) {
	case *ast.IntLiteral:
		l.push(l.intLit(e.Value, e.Span()))

	case *ast.RealLiteral:
		l.push(annotate(l, &goast.BasicLit{Kind: token.FLOAT, Value: realText(e)}, e.Span()))

	case *ast.StringLiteral:
		l.push(annotate(l, &goast.BasicLit{Kind: token.STRING, Value: strconv.Quote(e.Text)}, e.Span()))

	case *ast.Identifier:
		l.push(l.ident(goName(e.Name), e.Span()))

	case *ast.QualifiedIdentifier:
		l.push(l.qualified(e))

	case *ast.BinaryExpr:
		l.binary(e)

	case *ast.NegExpr:
		l.lowerExpr(e.X)
		x := l.pop(e.Span())
		switch x.(type) {
		case *goast.BinaryExpr, *goast.UnaryExpr:
			x = l.paren(x, e.X.Span())
		}
		l.push(annotate(l, &goast.UnaryExpr{Op: token.SUB, X: x}, e.Span()))

	case *ast.IndexExpr:
		l.lowerExpr(e.X)
		l.lowerExpr(e.Index)
		idx := l.pop(e.Span())
		x := l.pop(e.Span())
		l.push(annotate(l, &goast.IndexExpr{X: x, Index: idx}, e.Span()))

	case *ast.CallExpr:
		l.push(l.qualified(e.Callee))
		for _, a := range e.Args {
			l.lowerExpr(a)
		}
		args := l.popN(len(e.Args), e.Span())
		fun := l.pop(e.Span())
		l.push(annotate(l, &goast.CallExpr{Fun: fun, Args: args}, e.Span()))

	case *ast.ArrayLiteral:
		l.arrayLiteral(e)

	case *ast.TupleLiteral:
		fun := l.ident(TupleCtor, e.Span())
		for _, el := range e.Elems {
			l.lowerExpr(el)
		}
		args := l.popN(len(e.Elems), e.Span())
		l.push(annotate(l, &goast.CallExpr{Fun: fun, Args: args}, e.Span()))

	default:
		fault(e.Span(), "unexpected expression %T", e)
	}

	if len(l.values) != depth+1 {
		fault(e.Span(), "%s left %d values on stack, want 1", e.Kind(), len(l.values)-depth)
	}
}

// binary visits the right operand first, then the left; the left value is
// therefore on top of the stack.
func (l *lowerer) binary(e *ast.BinaryExpr) {
	l.lowerExpr(e.Right)
	l.lowerExpr(e.Left)
	left := l.pop(e.Span())
	right := l.pop(e.Span())

	op := binaryTokens[e.Op]
	if precedence(left) < op.Precedence() {
		left = l.paren(left, e.Left.Span())
	}
	if precedence(right) <= op.Precedence() {
		right = l.paren(right, e.Right.Span())
	}
	var x goast.Expr = annotate(l, &goast.BinaryExpr{X: left, Op: op, Y: right}, e.Span())
	if e.Parenthesized {
		x = l.paren(x, e.Span())
	}
	l.push(x)
}

// precedence of an already lowered operand. go/printer does not add
// parentheses, so every grouping must be explicit in the tree.
func precedence(x goast.Expr) int {
	if b, ok := x.(*goast.BinaryExpr); ok {
		return b.Op.Precedence()
	}
	return token.HighestPrec
}

func (l *lowerer) paren(x goast.Expr, sp source.Span) goast.Expr {
	if _, ok := x.(*goast.ParenExpr); ok {
		return x
	}
	return annotate(l, &goast.ParenExpr{X: x}, sp)
}

func (l *lowerer) qualified(q *ast.QualifiedIdentifier) goast.Expr {
	if q.Member == nil {
		return l.ident(goName(q.Object.Name), q.Object.Span())
	}
	name := goName(q.Object.Name)
	if l.isPackage(q.Object.Name) {
		name = q.Object.Name
		l.usedPkgs[name] = struct{}{}
	}
	obj := l.ident(name, q.Object.Span())
	sel := l.ident(q.Member.Name, q.Member.Span())
	return annotate(l, &goast.SelectorExpr{X: obj, Sel: sel}, q.Span())
}

// arrayLiteral builds Array[T]([]T{e1, ...}).
func (l *lowerer) arrayLiteral(e *ast.ArrayLiteral) {
	adapter := annotate(l, &goast.IndexExpr{
		X:     l.ident(ArrayType, e.Elem.Span()),
		Index: l.elemType(e.Elem),
	}, e.Elem.Span())
	sliceType := annotate(l, &goast.ArrayType{Elt: l.elemType(e.Elem)}, e.Elem.Span())

	for _, el := range e.Elems {
		l.lowerExpr(el)
	}
	elts := l.popN(len(e.Elems), e.Span())
	lit := annotate(l, &goast.CompositeLit{Type: sliceType, Elts: elts}, e.Span())
	l.push(annotate(l, &goast.CallExpr{Fun: adapter, Args: []goast.Expr{lit}}, e.Span()))
}

// realText keeps the source spelling when it is valid Go, which it is for
// every literal the lexer accepts.
func realText(e *ast.RealLiteral) string {
	if e.Text != "" {
		return e.Text
	}
	s := strconv.FormatFloat(e.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
