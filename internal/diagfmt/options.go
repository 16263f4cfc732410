package diagfmt

import (
	"golang.org/x/text/language"

	"mycompiler/internal/diag"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shortens long absolute paths to their base name.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// String is the name accepted by ParsePathMode and source.File.FormatPath.
func (m PathMode) String() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	}
	return "auto"
}

// ParsePathMode accepts the names used on the command line.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute", "abs":
		return PathModeAbsolute, true
	case "relative", "rel":
		return PathModeRelative, true
	case "basename", "base":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// Options configures a Formatter.
type Options struct {
	Locale   language.Tag
	PathMode PathMode
	// Catalog overrides the built-in templates.
	Catalog *Catalog
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	// MinSeverity hides diagnostics below this level.
	MinSeverity diag.Severity
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	Max              int  // обрезка вывода
	IncludeNotes     bool
	MinSeverity      diag.Severity
}
