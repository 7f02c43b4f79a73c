package grove

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// scriptStep is a single scene mutation in a script.
type scriptStep struct {
	Action string `yaml:"action"`
	Path   string `yaml:"path,omitempty"`
	Name   string `yaml:"name,omitempty"`
	Kind   string `yaml:"kind,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

// ComponentFactory builds the component a script's attach step names by kind.
type ComponentFactory func(kind string) (Component, error)

// Script sequences scene mutations across ticks: nodes appearing, being
// toggled or disposed while dependency waits are polling. Attach it with
// Scene.SetScript; it advances one step per Tick, before waits are polled.
//
// Scripts are YAML (or JSON):
//
//	steps:
//	  - action: wait
//	    frames: 3
//	  - action: create
//	    path: hangar
//	    name: bay
//	  - action: attach
//	    path: hangar/bay
//	    kind: dock
//	  - action: deactivate
//	    path: hangar
//
// Steps naming a path that does not exist are logged and skipped.
type Script struct {
	steps     []scriptStep
	factory   ComponentFactory
	cursor    int
	waitCount int
	done      bool
}

// ParseScript decodes a script. factory may be nil when no step attaches.
func ParseScript(data []byte, factory ComponentFactory) (*Script, error) {
	var file scriptFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(file.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range file.Steps {
		switch st.Action {
		case "wait":
		case "create":
			if st.Name == "" {
				return nil, fmt.Errorf("parse script: step %d: create needs a name", i)
			}
		case "attach":
			if factory == nil {
				return nil, fmt.Errorf("parse script: step %d: attach needs a component factory", i)
			}
			if st.Path == "" || st.Kind == "" {
				return nil, fmt.Errorf("parse script: step %d: attach needs a path and a kind", i)
			}
		case "activate", "deactivate", "enable", "disable", "dispose":
			if st.Path == "" {
				return nil, fmt.Errorf("parse script: step %d: %s needs a path", i, st.Action)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: file.Steps, factory: factory}, nil
}

// SetScript attaches a script to the scene, replacing any previous one.
func (s *Scene) SetScript(script *Script) {
	s.script = script
}

// Done reports whether every step has been executed.
func (r *Script) Done() bool {
	return r.done
}

// step advances the script by one tick.
func (r *Script) step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	if err := r.apply(s, st); err != nil {
		s.logger.WithFields(log.Fields{
			"action": st.Action,
			"path":   st.Path,
		}).WithError(err).Warn("grove: script step failed")
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *Script) apply(s *Scene, st scriptStep) error {
	if st.Action == "wait" {
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
		return nil
	}

	var n *Node
	if st.Path != "" {
		if n = s.Find(st.Path); n == nil {
			return fmt.Errorf("%w: no node at %q", ErrInvalidArgument, st.Path)
		}
	}
	switch st.Action {
	case "create":
		_, err := s.CreateNode(st.Name, n)
		return err
	case "attach":
		c, err := r.factory(st.Kind)
		if err != nil {
			return err
		}
		return n.AddComponent(c)
	case "activate", "deactivate":
		n.Active = st.Action == "activate"
	case "enable", "disable":
		for _, c := range n.components {
			if b, ok := c.(interface{ SetEnabled(bool) }); ok {
				b.SetEnabled(st.Action == "enable")
			}
		}
	case "dispose":
		n.Dispose()
	}
	return nil
}
