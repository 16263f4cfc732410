package locmap

import (
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairNodesStopsAtFirstMismatch(t *testing.T) {
	fset := token.NewFileSet()
	a, err := parser.ParseFile(fset, "a.go", "package p\nvar x = 1\n", 0)
	require.NoError(t, err)
	b, err := parser.ParseFile(fset, "b.go", "package p\nfunc f() {}\n", 0)
	require.NoError(t, err)

	pairs, diverged := pairNodes(a, b)
	assert.True(t, diverged)
	assert.Len(t, pairs, 2, "file and package name only")
	assert.Same(t, b.Name, pairs[a.Name])
}

func TestPairNodesIdenticalTrees(t *testing.T) {
	fset := token.NewFileSet()
	const src = "package p\nfunc f(a int) int { return -a * 2 }\n"
	a, err := parser.ParseFile(fset, "a.go", src, 0)
	require.NoError(t, err)
	b, err := parser.ParseFile(fset, "b.go", src, 0)
	require.NoError(t, err)

	pairs, diverged := pairNodes(a, b)
	assert.False(t, diverged)
	assert.Len(t, pairs, len(preorder(a)))
}
