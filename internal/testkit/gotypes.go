package testkit

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
)

// RuntimeStub declares the adapters generated code refers to, with the
// same signatures as the embedded runtime library.
const RuntimeStub = `package main

type Array[T any] []T

func (a Array[T]) Length() int { return len(a) }

type Tuple []any

func NewTuple(items ...any) Tuple { return items }

func Unpack(value any, targets ...any) {}
`

// FakeImporter resolves "fmt" to a package holding Println and Sprint.
// Other paths fail to import.
type FakeImporter struct{}

func (FakeImporter) Import(path string) (*types.Package, error) {
	if path != "fmt" {
		return nil, fmt.Errorf("could not import %s (no fake)", path)
	}
	pkg := types.NewPackage("fmt", "fmt")
	anyType := types.Universe.Lookup("any").Type()
	variadic := types.NewTuple(types.NewParam(token.NoPos, pkg, "a", types.NewSlice(anyType)))

	printlnSig := types.NewSignatureType(nil, nil, nil, variadic, types.NewTuple(
		types.NewVar(token.NoPos, pkg, "n", types.Typ[types.Int]),
		types.NewVar(token.NoPos, pkg, "err", types.Universe.Lookup("error").Type()),
	), true)
	pkg.Scope().Insert(types.NewFunc(token.NoPos, pkg, "Println", printlnSig))

	sprint := types.NewSignatureType(nil, nil, nil, variadic,
		types.NewTuple(types.NewVar(token.NoPos, pkg, "", types.Typ[types.String])), true)
	pkg.Scope().Insert(types.NewFunc(token.NoPos, pkg, "Sprint", sprint))

	pkg.MarkComplete()
	return pkg, nil
}

// TypeCheck parses src together with RuntimeStub and type-checks them as
// package main. All type errors are joined.
func TypeCheck(src []byte) error {
	_, err := check(src, nil)
	return err
}

// PrintedConstants type-checks src and returns the exact constant value of
// every fmt.Println argument in source order. Non-constant arguments are
// reported as "?".
func PrintedConstants(src []byte) ([]string, error) {
	info := &types.Info{Types: make(map[ast.Expr]types.TypeAndValue)}
	unit, err := check(src, info)
	if err != nil {
		return nil, err
	}
	var out []string
	ast.Inspect(unit, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Println" {
			return true
		}
		if pkg, ok := sel.X.(*ast.Ident); !ok || pkg.Name != "fmt" {
			return true
		}
		for _, arg := range call.Args {
			if tv := info.Types[arg]; tv.Value != nil {
				out = append(out, tv.Value.ExactString())
			} else {
				out = append(out, "?")
			}
		}
		return true
	})
	return out, nil
}

func check(src []byte, info *types.Info) (*ast.File, error) {
	fset := token.NewFileSet()
	unit, err := parser.ParseFile(fset, "main.go", src, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	stub, err := parser.ParseFile(fset, "runtime.go", RuntimeStub, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}
	var errs []error
	conf := types.Config{
		Importer: FakeImporter{},
		Error:    func(err error) { errs = append(errs, err) },
	}
	_, _ = conf.Check("main", fset, []*ast.File{unit, stub}, info)
	return unit, errors.Join(errs...)
}
