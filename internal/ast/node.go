package ast

import (
	"mycompiler/internal/source"
)

// Node is any syntax tree node. The set of implementations is closed:
// only types in this package satisfy it.
type Node interface {
	Span() source.Span
	Kind() Kind
	node()
}

// Expr represents an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Base carries the span every node owns.
type Base struct {
	Loc source.Span
}

// At builds a Base for sp.
func At(sp source.Span) Base { return Base{Loc: sp} }

// Span returns the node span.
func (b Base) Span() source.Span { return b.Loc }

func (Base) node() {}

// Kind discriminates node variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindIntLiteral
	KindRealLiteral
	KindStringLiteral
	KindIdentifier
	KindQualifiedIdentifier
	KindBinaryExpr
	KindNegExpr
	KindIndexExpr
	KindCallExpr
	KindArrayLiteral
	KindTupleLiteral
	KindTypeRef
	KindBinding
	KindParam
	KindTupleAssignTarget
	KindBlock
	KindPrint
	KindVarDecl
	KindAssign
	KindFunctionDecl
	KindCallStmt
	KindReturn
	KindRepeatLoop
	KindForLoop
	KindImportDirective
	KindTupleDestructureDecl
	KindTupleAssign
)

var kindNames = [...]string{
	KindInvalid:              "Invalid",
	KindIntLiteral:           "IntLiteral",
	KindRealLiteral:          "RealLiteral",
	KindStringLiteral:        "StringLiteral",
	KindIdentifier:           "Identifier",
	KindQualifiedIdentifier:  "QualifiedIdentifier",
	KindBinaryExpr:           "BinaryExpr",
	KindNegExpr:              "NegExpr",
	KindIndexExpr:            "IndexExpr",
	KindCallExpr:             "CallExpr",
	KindArrayLiteral:         "ArrayLiteral",
	KindTupleLiteral:         "TupleLiteral",
	KindTypeRef:              "TypeRef",
	KindBinding:              "Binding",
	KindParam:                "Param",
	KindTupleAssignTarget:    "TupleAssignTarget",
	KindBlock:                "Block",
	KindPrint:                "Print",
	KindVarDecl:              "VarDecl",
	KindAssign:               "Assign",
	KindFunctionDecl:         "FunctionDecl",
	KindCallStmt:             "CallStmt",
	KindReturn:               "Return",
	KindRepeatLoop:           "RepeatLoop",
	KindForLoop:              "ForLoop",
	KindImportDirective:      "ImportDirective",
	KindTupleDestructureDecl: "TupleDestructureDecl",
	KindTupleAssign:          "TupleAssign",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}
