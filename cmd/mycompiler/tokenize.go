package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mycompiler/internal/diagfmt"
	"mycompiler/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.mcl",
		Short: "Print the tokens of a source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	result, err := driver.Tokenize(args[0], s.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	items := bagItems(result.Bag)
	if len(items) > 0 {
		f := diagfmt.New(result.FileSet, diagfmt.Options{Locale: s.locale, PathMode: s.pathMode})
		errOut := cmd.ErrOrStderr()
		if err := diagfmt.Pretty(errOut, items, f, diagfmt.PrettyOpts{Color: s.useColor(errOut), ShowNotes: true}); err != nil {
			return err
		}
	}

	if format == "json" {
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	} else {
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if diagfmt.Failed(items) {
		return errCompileFailed
	}
	return nil
}
