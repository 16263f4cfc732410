package ast

import "strings"

// IntLiteral is a decimal integer literal. Value is non-negative; a leading
// minus is a NegExpr.
type IntLiteral struct {
	Base
	Value int64
}

// RealLiteral keeps the source spelling next to the parsed value so the
// lowered literal prints exactly as written.
type RealLiteral struct {
	Base
	Value float64
	Text  string
}

// StringLiteral holds the decoded text, quotes and escapes removed.
type StringLiteral struct {
	Base
	Text string
}

type Identifier struct {
	Base
	Name string
}

// QualifiedIdentifier is object.member, or a plain identifier when Member is nil.
type QualifiedIdentifier struct {
	Base
	Object *Identifier
	Member *Identifier
}

// String renders the dotted name.
func (q *QualifiedIdentifier) String() string {
	if q.Member == nil {
		return q.Object.Name
	}
	return q.Object.Name + "." + q.Member.Name
}

// BinaryOp is one of + - * / %.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
)

func (op BinaryOp) String() string {
	return [...]string{"+", "-", "*", "/", "%"}[op]
}

// Precedence: multiplicative operators bind tighter than additive ones.
func (op BinaryOp) Precedence() int {
	if op == OpAdd || op == OpSub {
		return 1
	}
	return 2
}

type BinaryExpr struct {
	Base
	Op            BinaryOp
	Left          Expr
	Right         Expr
	Parenthesized bool
}

// NegExpr is unary minus.
type NegExpr struct {
	Base
	X Expr
}

// IndexExpr is X[Index].
type IndexExpr struct {
	Base
	X     Expr
	Index Expr
}

type CallExpr struct {
	Base
	Callee *QualifiedIdentifier
	Args   []Expr
}

// ArrayLiteral is T[]{e1, e2, ...}.
type ArrayLiteral struct {
	Base
	Elem  *TypeRef
	Elems []Expr
}

// TupleLiteral is (e1, e2, ...) with at least two elements.
type TupleLiteral struct {
	Base
	Elems []Expr
}

// TypeRef names a type, optionally as an array of it (T[]).
type TypeRef struct {
	Base
	Name    *Identifier
	IsArray bool
}

func (t *TypeRef) String() string {
	var b strings.Builder
	b.WriteString(t.Name.Name)
	if t.IsArray {
		b.WriteString("[]")
	}
	return b.String()
}

// IsVoid reports whether the type is the void pseudo-type.
func (t *TypeRef) IsVoid() bool {
	return t != nil && !t.IsArray && t.Name.Name == "void"
}

func (*IntLiteral) Kind() Kind          { return KindIntLiteral }
func (*RealLiteral) Kind() Kind         { return KindRealLiteral }
func (*StringLiteral) Kind() Kind       { return KindStringLiteral }
func (*Identifier) Kind() Kind          { return KindIdentifier }
func (*QualifiedIdentifier) Kind() Kind { return KindQualifiedIdentifier }
func (*BinaryExpr) Kind() Kind          { return KindBinaryExpr }
func (*NegExpr) Kind() Kind             { return KindNegExpr }
func (*IndexExpr) Kind() Kind           { return KindIndexExpr }
func (*CallExpr) Kind() Kind            { return KindCallExpr }
func (*ArrayLiteral) Kind() Kind        { return KindArrayLiteral }
func (*TupleLiteral) Kind() Kind        { return KindTupleLiteral }
func (*TypeRef) Kind() Kind             { return KindTypeRef }

func (*IntLiteral) exprNode()          {}
func (*RealLiteral) exprNode()         {}
func (*StringLiteral) exprNode()       {}
func (*Identifier) exprNode()          {}
func (*QualifiedIdentifier) exprNode() {}
func (*BinaryExpr) exprNode()          {}
func (*NegExpr) exprNode()             {}
func (*IndexExpr) exprNode()           {}
func (*CallExpr) exprNode()            {}
func (*ArrayLiteral) exprNode()        {}
func (*TupleLiteral) exprNode()        {}
