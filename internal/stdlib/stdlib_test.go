package stdlib_test

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/stdlib"
)

func names(units []stdlib.Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Name
	}
	return out
}

func TestAll(t *testing.T) {
	all, err := stdlib.All()
	require.NoError(t, err)
	assert.Equal(t, []string{"array", "prelude", "stopwatch", "tuple"}, names(all))
	for _, u := range all {
		assert.NotEmpty(t, u.Source, u.Name)
	}
	prelude, ok := stdlib.Lookup("prelude")
	require.True(t, ok)
	assert.Equal(t, stdlib.KindSource, prelude.Kind)
	assert.Equal(t, "prelude.mcl", prelude.FileName())
	assert.Equal(t, "mcl_prelude.go", prelude.GoName())

	array, ok := stdlib.Lookup("array")
	require.True(t, ok)
	assert.True(t, array.Required)
	assert.Equal(t, "mcl_array.go", array.FileName())

	_, ok = stdlib.Lookup("missing")
	assert.False(t, ok)
}

func TestSelect(t *testing.T) {
	got, err := stdlib.Select(nil)
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = stdlib.Select([]string{})
	require.NoError(t, err)
	assert.Equal(t, []string{"array", "tuple"}, names(got))

	got, err = stdlib.Select([]string{"stop*"})
	require.NoError(t, err)
	assert.Equal(t, []string{"array", "stopwatch", "tuple"}, names(got))

	got, err = stdlib.Select([]string{"{prelude,stopwatch}"})
	require.NoError(t, err)
	assert.Equal(t, []string{"array", "prelude", "stopwatch", "tuple"}, names(got))

	_, err = stdlib.Select([]string{"[oops"})
	require.Error(t, err)
}

// Runtime units must form a valid package together with a program that
// uses them.
func TestRuntimeUnitsTypeCheck(t *testing.T) {
	if testing.Short() {
		t.Skip("source importer reads GOROOT")
	}
	units, err := stdlib.Select([]string{"stopwatch"})
	require.NoError(t, err)

	fset := token.NewFileSet()
	var files []*ast.File
	for _, u := range units {
		if u.Kind != stdlib.KindRuntime {
			continue
		}
		f, err := parser.ParseFile(fset, u.FileName(), u.Source, 0)
		require.NoError(t, err, u.Name)
		files = append(files, f)
	}
	mainSrc := `package main

import "fmt"

func main() {
	xs := Array[int]([]int{3, 1, 2})
	xs.SwapByIndex(0, 2)
	fmt.Println(xs, xs.Length(), xs.Indices())
	var a int
	var b string
	Unpack(NewTuple(1, "x"), &a, &b)
	sw := StartNew()
	sw.Stop()
	fmt.Println(a, b, sw.Milliseconds())
}
`
	f, err := parser.ParseFile(fset, "main.go", mainSrc, 0)
	require.NoError(t, err)
	files = append(files, f)

	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	_, err = conf.Check("main", fset, files, nil)
	require.NoError(t, err)
}
