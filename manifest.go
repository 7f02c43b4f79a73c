package grove

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// Manifest maps dependency names to the options used to resolve them. It is
// usually loaded from YAML:
//
//	dependencies:
//	  weapon:
//	    relation: descendant
//	    contains: gun
//	    order: closest
//	  rig:
//	    relations: parent|ancestor
//	    optional: true
type Manifest map[string]ResolveOptions

type manifestFile struct {
	Dependencies map[string]ResolveOptions `yaml:"dependencies"`
}

// ParseManifest decodes a YAML manifest. Unknown keys are rejected.
func ParseManifest(data []byte) (Manifest, error) {
	var file manifestFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m := Manifest(file.Dependencies)
	if m == nil {
		m = Manifest{}
	}
	for name := range m {
		if name == "" {
			return nil, fmt.Errorf("parse manifest: empty dependency name")
		}
	}
	return m, nil
}

// LoadManifest reads and decodes the manifest at path.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	return ParseManifest(data)
}

// Lookup returns the options for a dependency.
func (m Manifest) Lookup(name string) (ResolveOptions, error) {
	opts, ok := m[name]
	if !ok {
		return ResolveOptions{}, fmt.Errorf("%w: no dependency %q in manifest", ErrInvalidArgument, name)
	}
	return opts, nil
}

// Names returns the dependency names in sorted order.
func (m Manifest) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
