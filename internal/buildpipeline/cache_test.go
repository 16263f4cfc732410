package buildpipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/driver"
)

func TestBuildCacheFresh(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "prog")
	c := OpenBuildCache(filepath.Join(dir, ".cache"))
	d := Digest{1, 2, 3}

	assert.False(t, c.Fresh("prog", d, out), "no stamp yet")

	require.NoError(t, c.Record("prog", d, out))
	assert.False(t, c.Fresh("prog", d, out), "artifact missing")

	require.NoError(t, os.WriteFile(out, []byte("bin"), 0o600))
	assert.True(t, c.Fresh("prog", d, out))
	assert.False(t, c.Fresh("prog", Digest{9}, out))
	assert.False(t, c.Fresh("prog", d, filepath.Join(dir, "other")))
	assert.False(t, c.Fresh("other", d, out))

	require.NoError(t, c.Invalidate("prog"))
	assert.False(t, c.Fresh("prog", d, out))
	require.NoError(t, c.Invalidate("prog"), "second invalidate is a no-op")
}

func TestBuildCacheNil(t *testing.T) {
	var c *BuildCache
	assert.False(t, c.Fresh("x", Digest{}, "x"))
	assert.NoError(t, c.Record("x", Digest{}, "x"))
	assert.NoError(t, c.Invalidate("x"))
}

func TestBuildCacheCorruptStamp(t *testing.T) {
	dir := t.TempDir()
	c := OpenBuildCache(dir)
	require.NoError(t, os.WriteFile(c.pathFor("prog"), []byte{0xc1}, 0o600))
	assert.False(t, c.Fresh("prog", Digest{}, dir))
}

func TestUnitsDigest(t *testing.T) {
	a := driver.GenUnit{Name: "main.go", Source: []byte("package main\n")}
	b := driver.GenUnit{Name: "mcl_array.go", Source: []byte("package main\n// array\n")}

	base := unitsDigest("prog", []driver.GenUnit{a, b})
	assert.Equal(t, base, unitsDigest("prog", []driver.GenUnit{a, b}))
	assert.NotEqual(t, base, unitsDigest("other", []driver.GenUnit{a, b}))
	assert.NotEqual(t, base, unitsDigest("prog", []driver.GenUnit{b, a}))

	changed := a
	changed.Source = []byte("package main\n\nfunc main() {}\n")
	assert.NotEqual(t, base, unitsDigest("prog", []driver.GenUnit{changed, b}))

	// name and source boundaries are separated
	x := unitsDigest("p", []driver.GenUnit{{Name: "ab", Source: []byte("c")}})
	y := unitsDigest("p", []driver.GenUnit{{Name: "a", Source: []byte("bc")}})
	assert.NotEqual(t, x, y)
}
