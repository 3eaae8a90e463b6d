// Package config implements natded's constants and its optional
// natded.yaml manifest of datatype/atom declarations, which no pipeline
// stage consumes (spec.md/SPEC_FULL.md §8).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the conventional manifest filename. No command
// searches for it; a manifest is read only through LoadManifest.
const ManifestFileName = "natded.yaml"

// AtomSpec is one `atoms:` manifest entry.
type AtomSpec struct {
	Name  string `yaml:"name"`
	Arity int    `yaml:"arity"`
}

// Manifest declares datatypes and atoms ahead of a proof-term-only
// source file. No pipeline stage or command consumes it: resolve uses
// only the source's own inline `datatype`/`atom` declarations.
type Manifest struct {
	Datatypes []string   `yaml:"datatypes"`
	Atoms     []AtomSpec `yaml:"atoms"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return ParseManifest(data, path)
}

// ParseManifest parses natded.yaml content from bytes. path is used
// only for error messages.
func ParseManifest(data []byte, path string) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	seen := map[string]bool{}
	for _, d := range m.Datatypes {
		if seen[d] {
			return nil, fmt.Errorf("%s: duplicate datatype %q", path, d)
		}
		seen[d] = true
	}
	seenAtoms := map[string]bool{}
	for _, a := range m.Atoms {
		if seenAtoms[a.Name] {
			return nil, fmt.Errorf("%s: duplicate atom %q", path, a.Name)
		}
		seenAtoms[a.Name] = true
		if a.Arity < 0 {
			return nil, fmt.Errorf("%s: atom %q has negative arity", path, a.Name)
		}
	}
	return &m, nil
}
