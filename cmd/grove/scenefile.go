package main

import (
	"fmt"
	"os"

	"github.com/phanxgames/grove"
	"gopkg.in/yaml.v3"
)

// tag is the component every scene file entry becomes. Kind is the name the
// file gives it; queries on the command line filter by it.
type tag struct {
	grove.Behavior
	Kind string
}

// newTag is the script factory: any kind is accepted.
func newTag(kind string) (grove.Component, error) {
	return &tag{Kind: kind}, nil
}

type sceneSpec struct {
	Nodes []nodeSpec `yaml:"nodes"`
}

type nodeSpec struct {
	Name       string          `yaml:"name"`
	Active     *bool           `yaml:"active"`
	Components []componentSpec `yaml:"components"`
	Children   []nodeSpec      `yaml:"children"`
}

type componentSpec struct {
	Kind    string `yaml:"kind"`
	Enabled *bool  `yaml:"enabled"`
}

// UnmarshalYAML accepts either a bare kind or a mapping.
func (c *componentSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		c.Kind = value.Value
		return nil
	}
	type plain componentSpec
	return value.Decode((*plain)(c))
}

// loadScene builds a scene from the YAML file at path.
func loadScene(path string, scene *grove.Scene) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load scene: %w", err)
	}
	return parseScene(data, scene)
}

func parseScene(data []byte, scene *grove.Scene) error {
	var spec sceneSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("parse scene: %w", err)
	}
	if len(spec.Nodes) == 0 {
		return fmt.Errorf("parse scene: no nodes")
	}
	for _, ns := range spec.Nodes {
		if err := buildNode(scene, ns, nil); err != nil {
			return err
		}
	}
	return nil
}

func buildNode(scene *grove.Scene, ns nodeSpec, parent *grove.Node) error {
	if ns.Name == "" {
		return fmt.Errorf("parse scene: node without a name")
	}
	n, err := scene.CreateNode(ns.Name, parent)
	if err != nil {
		return err
	}
	if ns.Active != nil {
		n.Active = *ns.Active
	}
	for _, cs := range ns.Components {
		if cs.Kind == "" {
			return fmt.Errorf("parse scene: component without a kind on %q", n.Path())
		}
		t := &tag{Kind: cs.Kind}
		if cs.Enabled != nil {
			t.SetEnabled(*cs.Enabled)
		}
		if err := n.AddComponent(t); err != nil {
			return err
		}
	}
	for _, child := range ns.Children {
		if err := buildNode(scene, child, n); err != nil {
			return err
		}
	}
	return nil
}
