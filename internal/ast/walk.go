package ast

import "fmt"

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree in depth-first order, children in declaration order.
// A node type outside this package's closed set panics.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *IntLiteral, *RealLiteral, *StringLiteral, *Identifier:
		// leaves

	case *QualifiedIdentifier:
		Walk(v, n.Object)
		if n.Member != nil {
			Walk(v, n.Member)
		}

	case *BinaryExpr:
		Walk(v, n.Left)
		Walk(v, n.Right)

	case *NegExpr:
		Walk(v, n.X)

	case *IndexExpr:
		Walk(v, n.X)
		Walk(v, n.Index)

	case *CallExpr:
		Walk(v, n.Callee)
		walkExprs(v, n.Args)

	case *ArrayLiteral:
		Walk(v, n.Elem)
		walkExprs(v, n.Elems)

	case *TupleLiteral:
		walkExprs(v, n.Elems)

	case *TypeRef:
		Walk(v, n.Name)

	case *Binding:
		Walk(v, n.Name)
		if n.Value != nil {
			Walk(v, n.Value)
		}

	case *Param:
		Walk(v, n.Type)
		Walk(v, n.Name)

	case *TupleAssignTarget:
		for _, name := range n.Names {
			Walk(v, name)
		}

	case *Block:
		for _, s := range n.Stmts {
			Walk(v, s)
		}

	case *Print:
		Walk(v, n.X)

	case *VarDecl:
		Walk(v, n.Type)
		for _, b := range n.Bindings {
			Walk(v, b)
		}

	case *Assign:
		Walk(v, n.Target)
		Walk(v, n.Value)

	case *FunctionDecl:
		Walk(v, n.Result)
		Walk(v, n.Name)
		for _, p := range n.Params {
			Walk(v, p)
		}
		Walk(v, n.Body)

	case *CallStmt:
		Walk(v, n.Call)

	case *Return:
		if n.X != nil {
			Walk(v, n.X)
		}

	case *RepeatLoop:
		Walk(v, n.Count)
		Walk(v, n.Body)

	case *ForLoop:
		Walk(v, n.Var)
		if n.Type != nil {
			Walk(v, n.Type)
		}
		Walk(v, n.Body)

	case *ImportDirective:
		Walk(v, n.Namespace)

	case *TupleDestructureDecl:
		for _, p := range n.Bindings {
			Walk(v, p)
		}
		Walk(v, n.Value)

	case *TupleAssign:
		Walk(v, n.Target)
		Walk(v, n.Value)

	default:
		panic(fmt.Sprintf("ast.Walk: unexpected node type %T", n))
	}

	v.Visit(nil)
}

func walkExprs(v Visitor, list []Expr) {
	for _, x := range list {
		Walk(v, x)
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the tree in depth-first order: it calls f(node) and,
// if f returns true, inspects each child, then calls f(nil).
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
