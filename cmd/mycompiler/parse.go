package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mycompiler/internal/ast"
	"mycompiler/internal/diag"
	"mycompiler/internal/diagfmt"
	"mycompiler/internal/driver"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse file.mcl",
		Short: "Print the syntax tree of a source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	result, err := driver.Parse(args[0], s.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	items := bagItems(result.Bag)
	if len(items) > 0 {
		f := diagfmt.New(result.FileSet, diagfmt.Options{Locale: s.locale, PathMode: s.pathMode})
		if err := f.Write(cmd.ErrOrStderr(), diagfmt.Surface(items, diag.SevWarning)); err != nil {
			return err
		}
	}
	if result.Root == nil {
		return errCompileFailed
	}
	if err := ast.Dump(cmd.OutOrStdout(), result.Root, result.FileSet); err != nil {
		return err
	}
	if diagfmt.Failed(items) {
		return errCompileFailed
	}
	return nil
}

// bagItems converts front-end diagnostics for the formatter.
func bagItems(bag *diag.Bag) []diagfmt.Item {
	if bag == nil {
		return nil
	}
	ds := bag.Items()
	items := make([]diagfmt.Item, len(ds))
	for i, d := range ds {
		items[i] = diagfmt.FromDiagnostic(d)
	}
	return items
}
