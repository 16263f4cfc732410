package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mycompiler/internal/backend"
	"mycompiler/internal/buildpipeline"
	"mycompiler/internal/driver"
)

func newEmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit [flags] [file.mcl]",
		Short: "Print the Go code a program lowers to",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEmit,
	}
	addDiagnosticFlags(cmd)
	cmd.Flags().String("unit", backend.MainUnit, "generated unit to print")
	cmd.Flags().Bool("all", false, "print every unit, library units included")
	cmd.Flags().String("out-dir", "", "write units and location maps to this directory instead")
	return cmd
}

func runEmit(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out, err := readDiagnosticFlags(cmd)
	if err != nil {
		return err
	}
	unitName, err := cmd.Flags().GetString("unit")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return err
	}
	target, baseDir, err := s.target(args)
	if err != nil {
		return err
	}

	res, err := driver.Compile(cmd.Context(), target, driver.Options{
		MaxDiagnostics: s.maxDiagnostics,
		Stdlib:         s.stdlib(),
		Stop:           driver.StageLower,
		BaseDir:        baseDir,
	})
	if err != nil {
		return err
	}
	// код идёт в stdout, поэтому диагностики в stderr
	if err := reportDiagnostics(cmd.ErrOrStderr(), res, s, out); err != nil {
		return err
	}

	if outDir != "" {
		if err := buildpipeline.WriteUnits(outDir, res.Units); err != nil {
			return err
		}
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d units to %s\n", len(res.Units), outDir)
		}
		return nil
	}
	if all {
		return writeUnits(cmd.OutOrStdout(), res.Units)
	}
	u, ok := res.Unit(unitName)
	if !ok {
		return fmt.Errorf("no generated unit %q", unitName)
	}
	_, err = cmd.OutOrStdout().Write(u.Source)
	return err
}

func writeUnits(w io.Writer, units []driver.GenUnit) error {
	for i, u := range units {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "// ---- %s ----\n", u.Name); err != nil {
			return err
		}
		if _, err := w.Write(u.Source); err != nil {
			return err
		}
	}
	return nil
}
