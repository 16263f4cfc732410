package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"mycompiler/internal/ast"
	"mycompiler/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed program:
// 1) every span points into sf and ends within its content
// 2) every node other than an empty root has a non-empty span
// 3) every child span is contained in its parent's span
func CheckSpanInvariants(root *ast.Block, sf *source.File) error {
	if root == nil || sf == nil {
		return fmt.Errorf("nil root or file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var stack []ast.Node
	var firstErr error
	ast.Inspect(root, func(n ast.Node) bool {
		if firstErr != nil {
			return false
		}
		if n == nil {
			stack = stack[:len(stack)-1]
			return true
		}
		sp := n.Span()
		switch {
		case sp.File != sf.ID:
			firstErr = fmt.Errorf("%s span points to different file id: got=%d want=%d", n.Kind(), sp.File, sf.ID)
		case sp.End > lenContent:
			firstErr = fmt.Errorf("%s span end beyond content: %d > %d", n.Kind(), sp.End, lenContent)
		case sp.End < sp.Start:
			firstErr = fmt.Errorf("%s span is inverted: %v", n.Kind(), sp)
		case sp.Empty() && !(n == ast.Node(root) && len(root.Stmts) == 0):
			firstErr = fmt.Errorf("empty %s span: %v", n.Kind(), sp)
		}
		if firstErr == nil && len(stack) > 0 {
			parent := stack[len(stack)-1]
			if !parent.Span().Contains(sp) {
				firstErr = fmt.Errorf("%s span %v is outside %s span %v", n.Kind(), sp, parent.Kind(), parent.Span())
			}
		}
		if firstErr != nil {
			return false
		}
		stack = append(stack, n)
		return true
	})
	return firstErr
}
