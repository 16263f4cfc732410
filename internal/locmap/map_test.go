package locmap_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/diag"
	"mycompiler/internal/locmap"
	"mycompiler/internal/lower"
	"mycompiler/internal/parser"
	"mycompiler/internal/source"
)

type built struct {
	src    string // program text
	gen    []byte // generated Go
	m      *locmap.Map
	lowerd *lower.Result
}

func build(t *testing.T, src string) built {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("prog.mcl", []byte(src))
	bag := diag.NewBag(0)
	parsed := parser.ParseFile(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	require.NotNil(t, parsed.Root)
	res, err := lower.File(context.Background(), parsed.Root, lower.Options{})
	require.NoError(t, err)
	m, gen, err := locmap.Build("main.go", res)
	require.NoError(t, err)
	return built{src: src, gen: gen, m: m, lowerd: res}
}

// rangeOf finds the n-th occurrence (0-based) of frag in the generated text.
func (b built) rangeOf(t *testing.T, frag string, n int) locmap.Range {
	t.Helper()
	off := 0
	for i := 0; ; i++ {
		idx := bytes.Index(b.gen[off:], []byte(frag))
		require.GreaterOrEqual(t, idx, 0, "%q not in:\n%s", frag, b.gen)
		if i == n {
			return locmap.Range{Start: off + idx, End: off + idx + len(frag)}
		}
		off += idx + len(frag)
	}
}

func (b built) text(sp source.Span) string {
	return b.src[sp.Start:sp.End]
}

func TestExactLookup(t *testing.T) {
	b := build(t, "print 1.5;\nprint 100;")

	sp, ok := b.m.Lookup(b.rangeOf(t, "100", 0))
	require.True(t, ok)
	assert.Equal(t, "100", b.text(sp))

	sp, ok = b.m.Lookup(b.rangeOf(t, "fmt.Println(1.5)", 0))
	require.True(t, ok)
	assert.Equal(t, "print 1.5;", b.text(sp))
}

func TestInnermostSpanWinsOnSharedBoundary(t *testing.T) {
	b := build(t, "int a = 1;\nprint a + 2;")
	r := b.rangeOf(t, "a + 2", 0)

	sp, ok := b.m.Lookup(locmap.At(r.Start))
	require.True(t, ok)
	assert.Equal(t, "a", b.text(sp))

	sp, ok = b.m.Lookup(r)
	require.True(t, ok)
	assert.Equal(t, "a + 2", b.text(sp))
}

func TestComposedLookup(t *testing.T) {
	b := build(t, "print 1.5;\nprint 100;")
	first := b.rangeOf(t, "fmt.Println(1.5)", 0)
	second := b.rangeOf(t, "fmt.Println(100)", 0)

	sp, ok := b.m.Lookup(locmap.Range{Start: first.Start, End: second.End})
	require.True(t, ok)
	assert.Equal(t, "print 1.5;\nprint 100;", b.text(sp))
}

func TestLookupMisses(t *testing.T) {
	b := build(t, "print 100;")
	lit := b.rangeOf(t, "100", 0)

	_, ok := b.m.Lookup(locmap.Range{Start: lit.Start, End: lit.Start + 1})
	assert.False(t, ok, "range ending inside a token")
	_, ok = b.m.Lookup(locmap.Range{Start: -5, End: -1})
	assert.False(t, ok)
	_, ok = b.m.Lookup(locmap.At(len(b.gen) + 10))
	assert.False(t, ok)

	var nilMap *locmap.Map
	_, ok = nilMap.Lookup(lit)
	assert.False(t, ok)
}

func TestEnclosing(t *testing.T) {
	b := build(t, "repeat 2 {\n  print 100;\n}")
	lit := b.rangeOf(t, "100", 0)

	e, ok := b.m.Enclosing(lit.Start + 1)
	require.True(t, ok)
	assert.Equal(t, lit, e.Range)
	assert.Equal(t, "100", b.text(e.Span))

	// the "<" of the loop condition belongs to the condition only
	cond := b.rangeOf(t, "__rep0 < 2", 0)
	e, ok = b.m.Enclosing(cond.Start + len("__rep0 "))
	require.True(t, ok)
	assert.Equal(t, cond, e.Range)

	_, ok = b.m.Enclosing(-1)
	assert.False(t, ok)

	sp, ok := b.m.Resolve(locmap.Range{Start: lit.Start + 1, End: lit.Start + 2})
	require.True(t, ok)
	assert.Equal(t, "100", b.text(sp))
}

func TestStats(t *testing.T) {
	b := build(t, "int[] xs = int[]{1, 2}; (int p, int q) = (3, 4); print xs[p];")
	st := b.m.Stats()
	assert.False(t, st.Diverged)
	assert.Equal(t, len(b.lowerd.Annotations), st.Annotations)
	assert.Equal(t, st.Annotations, st.Paired)
	assert.Equal(t, st.Paired-st.Shadowed, b.m.Len())
	assert.Positive(t, st.Shadowed, "statement and expression share a range")
}

func TestSnapshotRoundTrip(t *testing.T) {
	b := build(t, "int a = 1;\nprint a + 2;")
	b.m.SetOrigin("src/prog.mcl")

	var buf bytes.Buffer
	require.NoError(t, b.m.Encode(&buf))
	back, err := locmap.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, b.m.Entries(), back.Entries())
	assert.Equal(t, b.m.Stats(), back.Stats())
	assert.Equal(t, "main.go", back.Unit())
	assert.Equal(t, "src/prog.mcl", back.Origin())

	r := b.rangeOf(t, "a + 2", 0)
	want, _ := b.m.Lookup(r)
	got, ok := back.Lookup(r)
	require.True(t, ok)
	assert.Equal(t, want, got)

	path := filepath.Join(t.TempDir(), "out", "main"+locmap.Ext)
	require.NoError(t, b.m.WriteFile(path))
	fromDisk, err := locmap.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, b.m.Entries(), fromDisk.Entries())
}

func TestSnapshotSchemaMismatch(t *testing.T) {
	_, err := locmap.FromSnapshot(&locmap.Snapshot{Schema: 99})
	require.Error(t, err)
}

func TestBuildRejectsEmptyResult(t *testing.T) {
	_, _, err := locmap.Build("main.go", nil)
	require.Error(t, err)
}
