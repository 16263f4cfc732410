package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mycompiler/internal/buildpipeline"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] [file.mcl]",
		Short: "Build an executable",
		Long: `Build lowers the program to Go and runs go build. Generated units and
their location maps are kept in target/<profile>/gen. Without an argument
the entry of mycompiler.toml is built.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuildCmd,
	}
	addDiagnosticFlags(cmd)
	cmd.Flags().Bool("release", false, "write to target/release")
	cmd.Flags().StringP("output", "o", "", "executable name (default: manifest output or file name)")
	cmd.Flags().String("go", "go", "go command used to build")
	cmd.Flags().String("ui", "auto", "progress interface (auto|on|off)")
	cmd.Flags().Bool("keep-tmp", false, "preserve target/<profile>/.tmp contents")
	cmd.Flags().Bool("force", false, "rebuild even when the artifact is up to date")
	cmd.Flags().Bool("print-commands", false, "echo go toolchain output")
	return cmd
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out, err := readDiagnosticFlags(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	release, err := flags.GetBool("release")
	if err != nil {
		return err
	}
	outputName, err := flags.GetString("output")
	if err != nil {
		return err
	}
	goBin, err := flags.GetString("go")
	if err != nil {
		return err
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return err
	}
	keepTmp, err := flags.GetBool("keep-tmp")
	if err != nil {
		return err
	}
	force, err := flags.GetBool("force")
	if err != nil {
		return err
	}
	printCommands, err := flags.GetBool("print-commands")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	target, baseDir, err := s.target(args)
	if err != nil {
		return err
	}
	if s.manifest != nil && baseDir != "" {
		if s.manifest.Config.Build.CheckOnly {
			return checkTarget(cmd, s, out, mode, target, baseDir)
		}
		if outputName == "" {
			outputName = s.manifest.OutputName()
		}
	}

	profile := "debug"
	if release {
		profile = "release"
	}
	req := buildpipeline.BuildRequest{
		CompileRequest: buildpipeline.CompileRequest{
			TargetPath:     target,
			BaseDir:        baseDir,
			MaxDiagnostics: s.maxDiagnostics,
			Stdlib:         s.stdlib(),
			EnableTimings:  s.timings,
		},
		OutputName: outputName,
		OutputRoot: baseDir,
		Profile:    profile,
		GoBin:      goBin,
		KeepTmp:    keepTmp,
		Force:      force,
	}
	if printCommands {
		req.Commands = cmd.ErrOrStderr()
	}

	useUI := !s.quiet && !printCommands && shouldUseTUI(mode, cmd.ErrOrStderr())
	res, err := runBuild(cmd.Context(), useUI, cmd.ErrOrStderr(), "mycompiler build", &req)
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
	if s.quiet {
		return nil
	}
	root := baseDir
	if root == "" {
		root, _ = os.Getwd()
	}
	return printBuilt(cmd.ErrOrStderr(), root, res, keepTmp)
}

func printBuilt(w io.Writer, root string, res buildpipeline.BuildResult, keepTmp bool) error {
	if keepTmp {
		if _, err := fmt.Fprintf(w, "tmp dir: %s\n", formatPathForOutput(root, res.TmpDir)); err != nil {
			return err
		}
	}
	verb := "built"
	if res.Cached {
		verb = "up to date"
	}
	_, err := fmt.Fprintf(w, "%s %s\n", verb, formatPathForOutput(root, res.OutputPath))
	return err
}

func formatPathForOutput(root, path string) string {
	if root == "" || path == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
