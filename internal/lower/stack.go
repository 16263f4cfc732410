package lower

import (
	goast "go/ast"

	"mycompiler/internal/source"
)

func (l *lowerer) push(x goast.Expr) {
	l.values = append(l.values, x)
}

// pop takes the most recently lowered expression. sp names the node that
// consumes it, for the fault message.
func (l *lowerer) pop(sp source.Span) goast.Expr {
	n := len(l.values)
	if n == 0 {
		fault(sp, "expression stack underflow")
	}
	x := l.values[n-1]
	l.values = l.values[:n-1]
	return x
}

// popN pops n values and returns them in push order.
func (l *lowerer) popN(n int, sp source.Span) []goast.Expr {
	if n == 0 {
		return nil
	}
	out := make([]goast.Expr, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = l.pop(sp)
	}
	return out
}
