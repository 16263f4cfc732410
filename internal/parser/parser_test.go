package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/ast"
	"mycompiler/internal/diag"
	"mycompiler/internal/parser"
	"mycompiler/internal/source"
)

func parse(t *testing.T, src string) (*ast.Block, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mcl", []byte(src))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return res.Root, bag
}

func mustParse(t *testing.T, src string) *ast.Block {
	t.Helper()
	root, bag := parse(t, src)
	for _, d := range bag.Items() {
		t.Logf("%s %s: %s", d.Severity, d.Code.ID(), d.Message)
	}
	require.Zero(t, bag.Len())
	require.NotNil(t, root)
	return root
}

func TestPrintLiterals(t *testing.T) {
	root := mustParse(t, "print 1.5; print 100;")
	require.True(t, root.IsEntry)
	require.Len(t, root.Stmts, 2)
	p1 := root.Stmts[0].(*ast.Print)
	p2 := root.Stmts[1].(*ast.Print)
	assert.Equal(t, "1.5", p1.X.(*ast.RealLiteral).Text)
	assert.Equal(t, int64(100), p2.X.(*ast.IntLiteral).Value)
}

func TestPrecedenceAndParens(t *testing.T) {
	root := mustParse(t, "print 1 + 2 * 3; print (1 + 2) * 3;")
	first := root.Stmts[0].(*ast.Print).X.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpAdd, first.Op)
	assert.Equal(t, ast.OpMul, first.Right.(*ast.BinaryExpr).Op)

	second := root.Stmts[1].(*ast.Print).X.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpMul, second.Op)
	inner := second.Left.(*ast.BinaryExpr)
	assert.True(t, inner.Parenthesized)
	assert.Equal(t, uint32(23), inner.Span().Start, "parenthesized span starts at '('")
}

func TestLeftAssociative(t *testing.T) {
	root := mustParse(t, "print 10 - 3 - 2;")
	top := root.Stmts[0].(*ast.Print).X.(*ast.BinaryExpr)
	assert.Equal(t, ast.OpSub, top.Op)
	assert.Equal(t, int64(2), top.Right.(*ast.IntLiteral).Value)
	assert.IsType(t, &ast.BinaryExpr{}, top.Left)
}

func TestVarDeclBindings(t *testing.T) {
	root := mustParse(t, "int a = 1, b, c = a + 1;")
	decl := root.Stmts[0].(*ast.VarDecl)
	assert.Equal(t, "int", decl.Type.String())
	require.Len(t, decl.Bindings, 3)
	assert.NotNil(t, decl.Bindings[0].Value)
	assert.Nil(t, decl.Bindings[1].Value)
	assert.Equal(t, "c", decl.Bindings[2].Name.Name)
}

func TestArrays(t *testing.T) {
	root := mustParse(t, "int[] xs = int[]{1, 2, 3}; print xs[1];")
	decl := root.Stmts[0].(*ast.VarDecl)
	assert.True(t, decl.Type.IsArray)
	lit := decl.Bindings[0].Value.(*ast.ArrayLiteral)
	assert.Equal(t, "int", lit.Elem.String())
	assert.Len(t, lit.Elems, 3)
	idx := root.Stmts[1].(*ast.Print).X.(*ast.IndexExpr)
	assert.Equal(t, int64(1), idx.Index.(*ast.IntLiteral).Value)
}

func TestFunctionsAndCalls(t *testing.T) {
	root := mustParse(t, `
func int add(int a, int b) { return a + b; }
func void hello() { print "hi"; return; }
hello();
print add(1, 2);
math.Max(1, 2);
`)
	require.Len(t, root.Stmts, 5)
	add := root.Stmts[0].(*ast.FunctionDecl)
	assert.Equal(t, "add", add.Name.Name)
	assert.Len(t, add.Params, 2)
	hello := root.Stmts[1].(*ast.FunctionDecl)
	assert.True(t, hello.Result.IsVoid())
	assert.Nil(t, hello.Body.Stmts[1].(*ast.Return).X)
	call := root.Stmts[2].(*ast.CallStmt)
	assert.Equal(t, "hello", call.Call.Callee.String())
	assert.Len(t, root.Stmts[3].(*ast.Print).X.(*ast.CallExpr).Args, 2)
	assert.Equal(t, "math.Max", root.Stmts[4].(*ast.CallStmt).Call.Callee.String())
}

func TestLoops(t *testing.T) {
	root := mustParse(t, `
repeat 3 { print 1; }
for int i = -2 to 5 print i;
int j;
for j = 1 to 3 { print j; }
`)
	rep := root.Stmts[0].(*ast.RepeatLoop)
	assert.Equal(t, int64(3), rep.Count.(*ast.IntLiteral).Value)
	assert.IsType(t, &ast.Block{}, rep.Body)

	typed := root.Stmts[1].(*ast.ForLoop)
	assert.Equal(t, int64(-2), typed.From)
	assert.Equal(t, int64(5), typed.To)
	require.NotNil(t, typed.Type)
	assert.IsType(t, &ast.Print{}, typed.Body)

	plain := root.Stmts[3].(*ast.ForLoop)
	assert.Nil(t, plain.Type)
}

func TestTuples(t *testing.T) {
	root := mustParse(t, `
(int a, string b) = (1, "x");
(a, b) = (2, "y");
print (a, b);
`)
	decl := root.Stmts[0].(*ast.TupleDestructureDecl)
	require.Len(t, decl.Bindings, 2)
	assert.Equal(t, "string", decl.Bindings[1].Type.String())
	assert.Len(t, decl.Value.(*ast.TupleLiteral).Elems, 2)

	assign := root.Stmts[1].(*ast.TupleAssign)
	assert.Len(t, assign.Target.Names, 2)
	assert.IsType(t, &ast.TupleLiteral{}, root.Stmts[2].(*ast.Print).X)
}

func TestImport(t *testing.T) {
	root := mustParse(t, "import strings; import math.rand;")
	assert.Equal(t, "strings", root.Stmts[0].(*ast.ImportDirective).Namespace.String())
	assert.Equal(t, "math.rand", root.Stmts[1].(*ast.ImportDirective).Namespace.String())
}

func TestSyntaxErrorsDropTree(t *testing.T) {
	cases := []struct {
		src  string
		code diag.Code
	}{
		{"print 1", diag.SynExpectSemicolon},
		{"print ;", diag.SynExpectExpression},
		{"{ print 1;", diag.SynUnclosedBrace},
		{"for i = 1 5 print i;", diag.SynForBadHeader},
		{"repeat 2 { func void f() { } }", diag.SynNestedFunction},
		{"print 99999999999999999999;", diag.SynIntegerOutOfRange},
		{"x;", diag.SynUnexpectedToken},
		{"print \"unterminated;", diag.LexUnterminatedString},
		{"(int a) = 1;", diag.SynUnexpectedToken},
	}
	for _, tc := range cases {
		root, bag := parse(t, tc.src)
		assert.Nil(t, root, "source %q", tc.src)
		require.NotZero(t, bag.Len(), "source %q", tc.src)
		assert.Equal(t, tc.code, bag.Items()[0].Code, "source %q: %s", tc.src, bag.Items()[0].Message)
	}
}

func TestRecoveryReportsSeveralErrors(t *testing.T) {
	root, bag := parse(t, "print ; print 1; int 5 = 2; print 3;")
	assert.Nil(t, root)
	assert.Equal(t, 2, bag.Len())
}

func TestMaxErrors(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("m.mcl", []byte("print ; print ; print ; print ;"))
	bag := diag.NewBag(0)
	res := parser.ParseFile(fs.Get(id), parser.Options{MaxErrors: 2, Reporter: diag.BagReporter{Bag: bag}})
	assert.Nil(t, res.Root)
	assert.Equal(t, 2, bag.Len())
}
