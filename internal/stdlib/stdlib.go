package stdlib

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

//go:embed units
var units embed.FS

const (
	goExt     = ".go.in"
	sourceExt = ".mcl"
)

// Kind tells how a unit reaches the backend.
type Kind uint8

const (
	// KindRuntime units are Go sources.
	KindRuntime Kind = iota
	// KindSource units go through the front end in library mode.
	KindSource
)

func (k Kind) String() string {
	if k == KindSource {
		return "source"
	}
	return "runtime"
}

// Unit is one embedded library file.
type Unit struct {
	Name     string // "array", "prelude"
	Kind     Kind
	Required bool
	Source   []byte
}

// FileName is the name the unit is compiled under: "mcl_array.go" for
// runtime units, "prelude.mcl" for source units.
func (u Unit) FileName() string {
	if u.Kind == KindSource {
		return u.Name + sourceExt
	}
	return "mcl_" + u.Name + ".go"
}

// GoName is the generated Go file a source unit lowers into.
func (u Unit) GoName() string {
	return "mcl_" + u.Name + ".go"
}

var required = []string{"array", "tuple"}

// All returns every embedded unit sorted by name.
func All() ([]Unit, error) {
	entries, err := fs.ReadDir(units, "units")
	if err != nil {
		return nil, err
	}
	out := make([]Unit, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		var u Unit
		switch {
		case strings.HasSuffix(name, goExt):
			u = Unit{Name: strings.TrimSuffix(name, goExt), Kind: KindRuntime}
		case strings.HasSuffix(name, sourceExt):
			u = Unit{Name: strings.TrimSuffix(name, sourceExt), Kind: KindSource}
		default:
			continue
		}
		data, err := units.ReadFile(path.Join("units", name))
		if err != nil {
			return nil, err
		}
		u.Source = data
		u.Required = slices.Contains(required, u.Name)
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b Unit) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Select returns the required units plus every unit whose name matches
// one of patterns. A nil pattern list selects everything.
func Select(patterns []string) ([]Unit, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("stdlib: bad pattern %q", p)
		}
	}
	all, err := All()
	if err != nil {
		return nil, err
	}
	if patterns == nil {
		return all, nil
	}
	out := all[:0]
	for _, u := range all {
		if u.Required || matchAny(patterns, u.Name) {
			out = append(out, u)
		}
	}
	return out, nil
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Lookup returns the unit called name.
func Lookup(name string) (Unit, bool) {
	all, err := All()
	if err != nil {
		return Unit{}, false
	}
	i := slices.IndexFunc(all, func(u Unit) bool { return u.Name == name })
	if i < 0 {
		return Unit{}, false
	}
	return all[i], true
}
