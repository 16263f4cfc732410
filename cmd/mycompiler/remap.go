package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mycompiler/internal/backend"
	"mycompiler/internal/locmap"
	"mycompiler/internal/source"
	"mycompiler/internal/stdlib"
)

func newRemapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remap unit.go line:col",
		Short: "Map a position in generated Go back to the source program",
		Long: `Remap reads unit.go and the unit.go.locmap written next to it by build or
emit --out-dir, and prints the source range the Go position was lowered from.
Columns of the Go position are byte columns, as reported by the go tool.`,
		Args: cobra.ExactArgs(2),
		RunE: runRemap,
	}
}

func runRemap(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	goPath := strings.TrimSuffix(args[0], locmap.Ext)
	line, col, err := parseLineCol(args[1])
	if err != nil {
		return err
	}

	m, err := locmap.ReadFile(goPath + locmap.Ext)
	if err != nil {
		return fmt.Errorf("failed to read location map: %w", err)
	}
	// #nosec G304 -- path is provided by the user
	generated, err := os.ReadFile(goPath)
	if err != nil {
		return err
	}
	off, ok := backend.OffsetOf(generated, line, col)
	if !ok {
		return fmt.Errorf("%s has no position %d:%d", goPath, line, col)
	}
	span, ok := m.Resolve(locmap.At(off))
	if !ok {
		return fmt.Errorf("%s:%d:%d is not mapped to source", goPath, line, col)
	}

	fs := source.NewFileSet()
	id, err := loadOrigin(fs, m.Origin())
	if err != nil {
		return err
	}
	span.File = id
	file := fs.Get(id)
	if int(span.End) > len(file.Content) || span.Start > span.End {
		return fmt.Errorf("%s changed since it was compiled", m.Origin())
	}
	loc := fs.Locate(span)
	path := file.FormatPath(s.pathMode.String(), fs.BaseDir())
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d-%d:%d\n", path, loc.Start.Line, loc.Start.Col, loc.End.Line, loc.End.Col)
	return err
}

// loadOrigin reads the source a map was built from. Library units are
// read from the embedded copy.
func loadOrigin(fs *source.FileSet, origin string) (source.FileID, error) {
	if origin == "" {
		return 0, fmt.Errorf("location map does not record its source file")
	}
	if name, ok := strings.CutPrefix(origin, "stdlib/"); ok {
		u, found := stdlib.Lookup(strings.TrimSuffix(name, ".mcl"))
		if found {
			return fs.AddVirtual(origin, u.Source), nil
		}
	}
	id, err := fs.Load(origin)
	if err != nil {
		return 0, fmt.Errorf("failed to read source: %w", err)
	}
	return id, nil
}

func parseLineCol(s string) (line, col int, err error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid position %q (expected line:col)", s)
	}
	if line, err = strconv.Atoi(l); err != nil || line < 1 {
		return 0, 0, fmt.Errorf("invalid line in %q", s)
	}
	if col, err = strconv.Atoi(c); err != nil || col < 1 {
		return 0, 0, fmt.Errorf("invalid column in %q", s)
	}
	return line, col, nil
}
