package lower

import (
	goast "go/ast"
	"go/token"

	"mycompiler/internal/ast"
	"mycompiler/internal/source"
)

// ArrayType and TupleCtor name the stdlib adapters generated code relies on.
const (
	ArrayType  = "Array"
	TupleCtor  = "NewTuple"
	UnpackFunc = "Unpack"
)

var builtinTypes = map[string]string{
	"int":    "int",
	"real":   "float64",
	"double": "float64",
	"float":  "float64",
	"string": "string",
	"bool":   "bool",
	"char":   "rune",
}

// GoTypeName maps a scalar source type name to its Go spelling. Unknown
// names map to themselves.
func GoTypeName(name string) string {
	if g, ok := builtinTypes[name]; ok {
		return g
	}
	return goName(name)
}

// typeExpr lowers a type reference. A void reference yields nil.
func (l *lowerer) typeExpr(t *ast.TypeRef) goast.Expr {
	if t == nil {
		fault(source.Span{}, "nil type reference")
	}
	if t.IsVoid() {
		return nil
	}
	elem := l.ident(GoTypeName(t.Name.Name), t.Name.Span())
	if !t.IsArray {
		return elem
	}
	return l.arrayOf(elem, t)
}

// arrayOf builds Array[elem].
func (l *lowerer) arrayOf(elem goast.Expr, t *ast.TypeRef) goast.Expr {
	return annotate(l, &goast.IndexExpr{X: l.ident(ArrayType, t.Span()), Index: elem}, t.Span())
}

// elemType lowers the element type of t, ignoring the array suffix.
func (l *lowerer) elemType(t *ast.TypeRef) goast.Expr {
	return l.ident(GoTypeName(t.Name.Name), t.Name.Span())
}

func isIntType(t *ast.TypeRef) bool {
	return t != nil && !t.IsArray && t.Name.Name == "int"
}

// goName maps a user identifier to a valid, non-reserved Go identifier.
// User identifiers never start with '_', so the prefixed form cannot clash.
func goName(name string) string {
	if token.IsKeyword(name) || reserved[name] {
		return "_" + name
	}
	return name
}

// reserved are identifiers with a fixed meaning at Go package level or in
// the runtime library.
var reserved = map[string]bool{
	"main":     true,
	"init":     true,
	"fmt":      true, // print lowers to fmt.Println
	ArrayType:  true,
	TupleCtor:  true,
	UnpackFunc: true,
}
