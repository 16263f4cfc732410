// Command mycompiler compiles programs of the teaching language to Go.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mycompiler/internal/version"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailed   = 1 // program has errors
	exitInternal = 2 // usage, I/O or internal fault
)

// errCompileFailed is returned by commands after the diagnostics that
// explain it have been printed.
var errCompileFailed = errors.New("compilation failed")

// newRootCmd builds the command tree. finish releases tracing and
// profiling set up by the executed command.
func newRootCmd() (root *cobra.Command, finish func()) {
	root = &cobra.Command{
		Use:           "mycompiler",
		Short:         "Compiler for the mycompiler teaching language",
		Long:          `mycompiler lowers .mcl programs to Go, checks them and builds executables`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newBuildCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newEmitCmd())
	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newRemapCmd())
	root.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to collect")
	pf.String("locale", "", "message language (en|ru); defaults to the manifest, then LANG")
	pf.String("path-mode", "auto", "diagnostic paths (auto|absolute|relative|basename)")

	pf.String("cpuprofile", "", "write a CPU profile to file")
	pf.String("memprofile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go execution trace to file")

	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode=ring|both")

	var cleanups []func()
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		stopTrace, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopTrace)
		stopProf, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		cleanups = append(cleanups, stopProf)
		return nil
	}
	finish = func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}
	return root, finish
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root, finish := newRootCmd()
	defer finish()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errCompileFailed):
		return exitFailed
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitInternal
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// isTerminal проверяет, является ли w терминалом
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
