// Package manifest handles ember.toml boot configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents an ember.toml boot configuration.
type Manifest struct {
	Boot    Boot              `toml:"boot"`
	Console Console           `toml:"console"`
	Handoff Handoff           `toml:"handoff"`
	Images  map[string]string `toml:"images"`

	// Dir is the directory containing the ember.toml file (set at load time).
	Dir string `toml:"-"`
}

// Boot selects the startup script.
type Boot struct {
	Script   string `toml:"script"`
	Autoexec bool   `toml:"autoexec"`
}

// Console configures operator-visible output.
type Console struct {
	Prefix string `toml:"prefix"`
	Quiet  bool   `toml:"quiet"`
}

// Handoff configures the next-stage handoff manifest.
type Handoff struct {
	Output      string `toml:"output"`
	IncludeData bool   `toml:"include-data"`
}

// Load parses an ember.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	return LoadFile(filepath.Join(dir, "ember.toml"))
}

// LoadFile parses the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	m.Dir = filepath.Dir(path)
	return &m, nil
}

// ResolvePath resolves a manifest-relative path against the manifest
// directory. Absolute paths are returned unchanged.
func (m *Manifest) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Dir, path)
}
