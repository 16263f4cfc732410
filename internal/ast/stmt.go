package ast

// Block is a braced statement list. IsEntry marks the single top-level
// program block, which lowers without a nested scope.
type Block struct {
	Base
	Stmts   []Stmt
	IsEntry bool
}

type Print struct {
	Base
	X Expr
}

// Binding is one declarator of a VarDecl; Value may be nil.
type Binding struct {
	Base
	Name  *Identifier
	Value Expr
}

type VarDecl struct {
	Base
	Type     *TypeRef
	Bindings []*Binding
}

type Assign struct {
	Base
	Target *Identifier
	Value  Expr
}

// Param is a typed name, used for function parameters and tuple destructuring.
type Param struct {
	Base
	Type *TypeRef
	Name *Identifier
}

type FunctionDecl struct {
	Base
	Result *TypeRef
	Name   *Identifier
	Params []*Param
	Body   *Block
}

type CallStmt struct {
	Base
	Call *CallExpr
}

// Return has a nil X for a bare return.
type Return struct {
	Base
	X Expr
}

// RepeatLoop runs Body Count times; no loop variable is visible.
type RepeatLoop struct {
	Base
	Count Expr
	Body  Stmt
}

// ForLoop counts Var from From to To inclusive. Type is nil when the loop
// reuses an existing variable.
type ForLoop struct {
	Base
	Var  *Identifier
	Type *TypeRef
	From int64
	To   int64
	Body Stmt
}

type ImportDirective struct {
	Base
	Namespace *QualifiedIdentifier
}

type TupleDestructureDecl struct {
	Base
	Bindings []*Param
	Value    Expr
}

type TupleAssignTarget struct {
	Base
	Names []*Identifier
}

type TupleAssign struct {
	Base
	Target *TupleAssignTarget
	Value  Expr
}

func (*Block) Kind() Kind                { return KindBlock }
func (*Print) Kind() Kind                { return KindPrint }
func (*Binding) Kind() Kind              { return KindBinding }
func (*VarDecl) Kind() Kind              { return KindVarDecl }
func (*Assign) Kind() Kind               { return KindAssign }
func (*Param) Kind() Kind                { return KindParam }
func (*FunctionDecl) Kind() Kind         { return KindFunctionDecl }
func (*CallStmt) Kind() Kind             { return KindCallStmt }
func (*Return) Kind() Kind               { return KindReturn }
func (*RepeatLoop) Kind() Kind           { return KindRepeatLoop }
func (*ForLoop) Kind() Kind              { return KindForLoop }
func (*ImportDirective) Kind() Kind      { return KindImportDirective }
func (*TupleDestructureDecl) Kind() Kind { return KindTupleDestructureDecl }
func (*TupleAssignTarget) Kind() Kind    { return KindTupleAssignTarget }
func (*TupleAssign) Kind() Kind          { return KindTupleAssign }

func (*Block) stmtNode()                {}
func (*Print) stmtNode()                {}
func (*VarDecl) stmtNode()              {}
func (*Assign) stmtNode()               {}
func (*FunctionDecl) stmtNode()         {}
func (*CallStmt) stmtNode()             {}
func (*Return) stmtNode()               {}
func (*RepeatLoop) stmtNode()           {}
func (*ForLoop) stmtNode()              {}
func (*ImportDirective) stmtNode()      {}
func (*TupleDestructureDecl) stmtNode() {}
func (*TupleAssign) stmtNode()          {}
