// Package project locates and decodes the mycompiler.toml manifest.
//
//	[package]
//	name  = "hello"
//	entry = "src/main.mcl"
//
//	[build]
//	locale     = "ru"
//	output     = "hello"
//	stdlib     = ["prelude", "stop*"]
//	check_only = false
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
)

// SourceExt is the extension of source files.
const SourceExt = ".mcl"

// DefaultEntry is used when [package].entry is omitted.
const DefaultEntry = "main" + SourceExt

// Manifest is a decoded mycompiler.toml together with its location.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest tables.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
}

type PackageConfig struct {
	Name  string `toml:"name"`
	Entry string `toml:"entry"`
}

type BuildConfig struct {
	Locale string `toml:"locale"`
	Output string `toml:"output"`
	// Stdlib selects library units by glob; empty selects all of them.
	Stdlib    []string `toml:"stdlib"`
	CheckOnly bool     `toml:"check_only"`
}

// Load finds the manifest above startDir and decodes it. ok is false when
// there is no manifest.
func Load(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := DecodeFile(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// DecodeFile reads and validates a manifest.
func DecodeFile(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if strings.TrimSpace(cfg.Package.Entry) == "" {
		cfg.Package.Entry = DefaultEntry
	}
	for _, pattern := range cfg.Build.Stdlib {
		if !doublestar.ValidatePattern(pattern) {
			return Config{}, fmt.Errorf("%s: [build].stdlib: bad pattern %q", path, pattern)
		}
	}
	return cfg, nil
}

// EntryPath resolves [package].entry against the project root and checks
// that it is a source file.
func (m *Manifest) EntryPath() (string, error) {
	if m == nil {
		return "", errors.New("missing project manifest")
	}
	entry := filepath.Join(m.Root, filepath.FromSlash(strings.TrimSpace(m.Config.Package.Entry)))
	info, err := os.Stat(entry)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: [package].entry does not exist: %s", m.Path, entry)
		}
		return "", fmt.Errorf("%s: failed to stat [package].entry: %w", m.Path, err)
	}
	if info.IsDir() || filepath.Ext(entry) != SourceExt {
		return "", fmt.Errorf("%s: [package].entry must be a %s file", m.Path, SourceExt)
	}
	return entry, nil
}

// OutputName is [build].output, falling back to the package name.
func (m *Manifest) OutputName() string {
	if m == nil {
		return ""
	}
	if out := strings.TrimSpace(m.Config.Build.Output); out != "" {
		return out
	}
	return m.Config.Package.Name
}
