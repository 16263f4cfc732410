package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mycompiler/internal/buildpipeline"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.mcl]",
		Short: "Lower and type-check a program without building it",
		Long: `Check lowers the program, type-checks the generated Go in process and
reports diagnostics mapped back to the source. Without an argument the
entry of mycompiler.toml is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	addDiagnosticFlags(cmd)
	cmd.Flags().String("ui", "off", "progress interface (auto|on|off)")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out, err := readDiagnosticFlags(cmd)
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	target, baseDir, err := s.target(args)
	if err != nil {
		return err
	}
	return checkTarget(cmd, s, out, mode, target, baseDir)
}

func checkTarget(cmd *cobra.Command, s *settings, out diagnosticOutput, mode uiMode, target, baseDir string) error {
	req := buildpipeline.CompileRequest{
		TargetPath:     target,
		BaseDir:        baseDir,
		MaxDiagnostics: s.maxDiagnostics,
		Stdlib:         s.stdlib(),
		Backend:        buildpipeline.BackendCheck,
		EnableTimings:  s.timings,
	}
	useUI := !s.quiet && shouldUseTUI(mode, cmd.ErrOrStderr())
	res, err := runCompile(cmd.Context(), useUI, cmd.ErrOrStderr(), "mycompiler check", &req)
	if err != nil && !errors.Is(err, buildpipeline.ErrDiagnostics) {
		return err
	}
	reportErr := reportDiagnostics(cmd.OutOrStdout(), res.Driver, s, out)
	if s.timings {
		if err := printStageTimings(cmd.ErrOrStderr(), res.Timings, res.Driver); err != nil {
			return err
		}
	}
	if reportErr != nil {
		return reportErr
	}
	if err != nil {
		return errCompileFailed
	}
	return nil
}
