// Package version carries build metadata of the mycompiler binary.
package version

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
)

// Overridable at build time:
//
//	-ldflags "-X mycompiler/internal/version.Version=0.2.0 -X mycompiler/internal/version.GitCommit=$(git rev-parse HEAD)"
var (
	// Version is the semantic version of the compiler.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric part in its own color.
// The pre-release suffix stays plain.
func Colored() string {
	core, suffix, found := strings.Cut(Version, "-")
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	out := majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2])
	if found {
		out += "-" + suffix
	}
	return out
}

// Short returns the commit trimmed to 12 characters.
func Short() string {
	if len(GitCommit) > 12 {
		return GitCommit[:12]
	}
	return GitCommit
}

// Banner is the text printed by `mycompiler version`.
func Banner() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mycompiler %s", Colored())
	if c := Short(); c != "" {
		fmt.Fprintf(&b, " (%s)", c)
	}
	b.WriteString("\n")
	if BuildDate != "" {
		fmt.Fprintf(&b, "built:   %s\n", BuildDate)
	}
	fmt.Fprintf(&b, "target:  go (%s %s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return b.String()
}
