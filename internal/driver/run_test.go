package driver_test

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mycompiler/internal/backend"
	"mycompiler/internal/driver"
)

// runProgram builds src with the Go toolchain and returns what the binary
// prints, one entry per line.
func runProgram(t *testing.T, src string) []string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds a binary with the go command")
	}
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not on PATH")
	}
	out := filepath.Join(t.TempDir(), "prog")
	res := compile(t, src, driver.Options{Backend: &backend.GoBuild{}, Output: out})
	require.False(t, res.Failed(), "%v", lines(res))
	require.NotNil(t, res.Backend)
	require.Equal(t, out, res.Backend.Artifact)

	stdout, err := exec.Command(out).Output()
	require.NoError(t, err)
	text := strings.TrimRight(string(stdout), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestRunIterationCounts(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{"repeat", "repeat 3 print 7;", []string{"7", "7", "7"}},
		{"repeat zero", "repeat 0 print 7;", nil},
		{"repeat negative", "int n = -2; repeat n print 7;", nil},
		{"repeat reads count once", "int n = 2; repeat n { print n; n = n + 5; }", []string{"2", "7"}},
		{"for inclusive", "for int i = 1 to 4 print i;", []string{"1", "2", "3", "4"}},
		{"for single", "for int i = 2 to 2 print i;", []string{"2"}},
		{"for empty range", "for int i = 3 to 1 print i;", nil},
		{"for existing var", "int j; for j = -1 to 1 print j;", []string{"-1", "0", "1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, runProgram(t, tc.src))
		})
	}
}

func TestRunNamesAndDestructure(t *testing.T) {
	assert.Equal(t, []string{"2"}, runProgram(t, "int[] type = int[]{1, 2}; print type.Length();"))
	assert.Equal(t, []string{"1"}, runProgram(t, "int fmt = 1; print fmt;"))
	assert.Equal(t, []string{"5", "2"}, runProgram(t, "int a = 5; { (int a, int b) = (a, 2); print a; print b; }"))
	assert.Equal(t, []string{"1", "5"}, runProgram(t, "int a = 5; { (int a, int b) = (1, a); print a; print b; }"))
}
