package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"mycompiler/internal/diag"
	"mycompiler/internal/diagfmt"
	"mycompiler/internal/driver"
	"mycompiler/internal/project"
)

const noManifestMessage = "no input file and no " + project.ManifestName + " found\nplease specify the program explicitly, e.g.:\n  mycompiler check path/to/main" + project.SourceExt

// settings collects the persistent flags and the project manifest.
type settings struct {
	colorMode      string
	quiet          bool
	timings        bool
	maxDiagnostics int
	locale         language.Tag
	pathMode       diagfmt.PathMode
	manifest       *project.Manifest
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	pf := cmd.Root().PersistentFlags()
	s := &settings{}
	var err error
	if s.colorMode, err = pf.GetString("color"); err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch s.colorMode {
	case "auto", "on", "off":
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", s.colorMode)
	}
	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	pathMode, err := pf.GetString("path-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if s.pathMode, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return nil, fmt.Errorf("invalid --path-mode value %q", pathMode)
	}

	manifest, found, err := project.Load(".")
	if err != nil {
		return nil, err
	}
	if found {
		s.manifest = manifest
	}

	// --locale, затем манифест, затем окружение
	localeFlag, err := pf.GetString("locale")
	if err != nil {
		return nil, fmt.Errorf("failed to get locale flag: %w", err)
	}
	switch {
	case localeFlag != "":
		s.locale = diagfmt.ParseLocale(localeFlag)
	case s.manifest != nil && s.manifest.Config.Build.Locale != "":
		s.locale = diagfmt.ParseLocale(s.manifest.Config.Build.Locale)
	default:
		s.locale = diagfmt.EnvLocale()
	}
	return s, nil
}

// useColor resolves --color for w.
func (s *settings) useColor(w io.Writer) bool {
	switch s.colorMode {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(w)
}

// stdlib returns the library selection of the manifest, nil for all units.
func (s *settings) stdlib() []string {
	if s.manifest == nil {
		return nil
	}
	return s.manifest.Config.Build.Stdlib
}

// target picks the program to compile: the argument, else the manifest entry.
// baseDir is the project root when the manifest is used.
func (s *settings) target(args []string) (path, baseDir string, err error) {
	if len(args) > 0 && filepath.Clean(args[0]) != "." {
		path = args[0]
		if filepath.Ext(path) != project.SourceExt {
			return "", "", fmt.Errorf("%s: expected a %s file", path, project.SourceExt)
		}
		return path, "", nil
	}
	if s.manifest == nil {
		return "", "", errors.New(noManifestMessage)
	}
	path, err = s.manifest.EntryPath()
	if err != nil {
		return "", "", err
	}
	return path, s.manifest.Root, nil
}

// diagnosticOutput is the --format flag of commands that report diagnostics.
type diagnosticOutput struct {
	format      string
	minSeverity diag.Severity
}

func addDiagnosticFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "line", "diagnostic format (line|pretty|json)")
	cmd.Flags().String("min-severity", "warning", "lowest severity shown (info|warning|error)")
}

func readDiagnosticFlags(cmd *cobra.Command) (diagnosticOutput, error) {
	var out diagnosticOutput
	var err error
	if out.format, err = cmd.Flags().GetString("format"); err != nil {
		return out, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch out.format {
	case "line", "pretty", "json":
	default:
		return out, fmt.Errorf("unknown format: %s", out.format)
	}
	sev, err := cmd.Flags().GetString("min-severity")
	if err != nil {
		return out, fmt.Errorf("failed to get min-severity flag: %w", err)
	}
	var ok bool
	if out.minSeverity, ok = diag.ParseSeverity(strings.ToLower(sev)); !ok {
		return out, fmt.Errorf("invalid --min-severity value %q", sev)
	}
	return out, nil
}

// reportDiagnostics prints the findings of res and returns errCompileFailed
// when any of them is an error.
func reportDiagnostics(w io.Writer, res *driver.Result, s *settings, out diagnosticOutput) error {
	if res == nil {
		return nil
	}
	f := diagfmt.New(res.FileSet, diagfmt.Options{Locale: s.locale, PathMode: s.pathMode})
	var err error
	switch out.format {
	case "pretty":
		err = diagfmt.Pretty(w, res.Items, f, diagfmt.PrettyOpts{
			Color:       s.useColor(w),
			ShowNotes:   true,
			MinSeverity: out.minSeverity,
		})
	case "json":
		err = diagfmt.JSON(w, res.Items, f, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			MinSeverity:      out.minSeverity,
		})
	default:
		err = f.Write(w, diagfmt.Surface(res.Items, out.minSeverity))
	}
	if err != nil {
		return err
	}
	if diagfmt.Failed(res.Items) {
		return errCompileFailed
	}
	return nil
}
