package backend

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"mycompiler/internal/diag"
	"mycompiler/internal/locmap"
	"mycompiler/internal/trace"
)

// generated package module file
const goModTemplate = "module %s\n\ngo 1.22\n"

// GoBuild compiles units with the Go toolchain.
type GoBuild struct {
	GoBin  string // default "go"
	Module string // module path of the generated package, default "program"
	// WorkDir receives the units and go.mod. Empty means a fresh temp dir
	// removed after the build.
	WorkDir string
	// Output mirrors every line the toolchain prints, if set.
	Output io.Writer
}

func (g *GoBuild) Compile(ctx context.Context, req Request) (res *Result, err error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "build")
	defer func() { span.End(fmt.Sprint(res != nil && res.OK)) }()

	goBin := g.GoBin
	if goBin == "" {
		goBin = "go"
	}
	goPath, err := exec.LookPath(goBin)
	if err != nil {
		return newResult([]Diagnostic{{
			Severity: diag.SevError,
			Code:     diag.BackendToolchainUnavailable,
			Args:     []string{goBin},
			Message:  err.Error(),
		}}), nil
	}
	if req.Output == "" {
		return nil, errors.New("backend: build needs an output path")
	}
	output, err := filepath.Abs(req.Output)
	if err != nil {
		return nil, err
	}

	dir := g.WorkDir
	if dir == "" {
		tmp, errTmp := os.MkdirTemp("", "mycompiler-build-*")
		if errTmp != nil {
			return nil, errTmp
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}
	sources, err := writeUnits(dir, g.module(), req.Units)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, goPath, "build", "-o", output, ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod")
	lines, runErr := g.run(cmd)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	diags := parseBuildOutput(lines, sources)
	if runErr != nil && len(diags) == 0 {
		msg := strings.TrimSpace(strings.Join(lines, "\n"))
		if msg == "" {
			msg = runErr.Error()
		}
		diags = append(diags, Diagnostic{
			Severity: diag.SevError,
			Code:     diag.BackendToolchain,
			Args:     []string{msg},
			Message:  msg,
		})
	}
	res = newResult(diags)
	if runErr == nil && res.OK {
		res.Artifact = output
	}
	res.OK = res.OK && runErr == nil
	return res, nil
}

func (g *GoBuild) module() string {
	if g.Module != "" {
		return g.Module
	}
	return "program"
}

func writeUnits(dir, module string, units []Unit) (map[string][]byte, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	sources := make(map[string][]byte, len(units))
	gomod := fmt.Sprintf(goModTemplate, module)
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(gomod), 0o600); err != nil {
		return nil, err
	}
	for _, u := range units {
		if err := os.WriteFile(filepath.Join(dir, u.Name), u.Source, 0o600); err != nil {
			return nil, fmt.Errorf("write %s: %w", u.Name, err)
		}
		sources[u.Name] = u.Source
	}
	return sources, nil
}

// run starts cmd and drains stdout and stderr concurrently, keeping the
// combined lines in arrival order.
func (g *GoBuild) run(cmd *exec.Cmd) ([]string, error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var lines []string
	drain := func(r io.Reader) func() error {
		return func() error {
			sc := bufio.NewScanner(r)
			for sc.Scan() {
				mu.Lock()
				lines = append(lines, sc.Text())
				if g.Output != nil {
					fmt.Fprintln(g.Output, sc.Text())
				}
				mu.Unlock()
			}
			return sc.Err()
		}
	}
	var eg errgroup.Group
	eg.Go(drain(stdout))
	eg.Go(drain(stderr))
	drainErr := eg.Wait()
	if err := cmd.Wait(); err != nil {
		return lines, err
	}
	return lines, drainErr
}

var buildLine = regexp.MustCompile(`^(?:\./)?([^:\s]+\.go):(\d+):(\d+): (.*)$`)

// parseBuildOutput turns compiler lines of the form file:line:col: msg into
// diagnostics. Tab-indented lines continue the previous message; anything
// else ("# program", go command chatter) is dropped.
func parseBuildOutput(lines []string, sources map[string][]byte) []Diagnostic {
	var out []Diagnostic
	for _, line := range lines {
		if strings.HasPrefix(line, "\t") && len(out) > 0 {
			last := &out[len(out)-1]
			last.Message += "\n" + line
			continue
		}
		m := buildLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		unit := filepath.Base(m[1])
		ln, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		off, ok := OffsetOf(sources[unit], ln, col)
		out = append(out, classified(unit, locmap.At(off), ok, m[4]))
	}
	return out
}

// OffsetOf converts a 1-based line and byte column into a byte offset.
func OffsetOf(src []byte, line, col int) (int, bool) {
	if src == nil || line < 1 || col < 1 {
		return 0, false
	}
	off := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(src[off:], '\n')
		if i < 0 {
			return 0, false
		}
		off += i + 1
	}
	off += col - 1
	if off > len(src) {
		return 0, false
	}
	return off, true
}
