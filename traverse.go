package grove

import (
	"fmt"
	"slices"
	"strings"
)

// Algorithm is a traversal strategy turning an origin node into a sequence of
// visited components. The set of algorithms is closed: the types in this
// file and *Compound.
//
// Algorithms keep no cursor state. Every walk allocates its own queue, stack
// or chain, so one value may serve nested and repeated enumerations.
type Algorithm interface {
	fmt.Stringer
	walk(origin *Node, w *walker)
}

// DescendantsBreadthFirst visits the origin, then its subtree in level order.
type DescendantsBreadthFirst struct{}

// DescendantsDepthFirst visits the origin, then its subtree in pre-order.
type DescendantsDepthFirst struct{}

// Ancestors visits the origin, then each parent up to the root.
type Ancestors struct{}

// AncestorsTopDown visits the root, then each node down to the origin.
type AncestorsTopDown struct{}

// ImmediateChildren visits the origin's direct children in order.
type ImmediateChildren struct{}

// SameTreeLevel visits every child of the origin's parent, origin included.
// For a root origin it visits every scene root.
type SameTreeLevel struct{}

// WholeTreeScan visits every component of the scene in registration order.
type WholeTreeScan struct{}

// noTraversal is the algorithm of Relation None.
type noTraversal struct{}

func (DescendantsBreadthFirst) String() string { return "descendants-breadth-first" }
func (DescendantsDepthFirst) String() string   { return "descendants-depth-first" }
func (Ancestors) String() string               { return "ancestors" }
func (AncestorsTopDown) String() string        { return "ancestors-top-down" }
func (ImmediateChildren) String() string       { return "immediate-children" }
func (SameTreeLevel) String() string           { return "same-tree-level" }
func (WholeTreeScan) String() string           { return "whole-tree" }
func (noTraversal) String() string             { return "none" }

func (DescendantsBreadthFirst) walk(origin *Node, w *walker) {
	queue := []*Node{origin}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if !w.visit(n) {
			if w.stopped {
				return
			}
			continue
		}
		queue = append(queue, n.children...)
	}
}

func (DescendantsDepthFirst) walk(origin *Node, w *walker) {
	stack := []*Node{origin}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !w.visit(n) {
			if w.stopped {
				return
			}
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
}

func (Ancestors) walk(origin *Node, w *walker) {
	for p := origin; p != nil; p = p.Parent {
		w.visit(p)
		if w.stopped {
			return
		}
	}
}

func (AncestorsTopDown) walk(origin *Node, w *walker) {
	for _, p := range origin.chain() {
		w.visit(p)
		if w.stopped {
			return
		}
	}
}

func (ImmediateChildren) walk(origin *Node, w *walker) {
	for _, c := range slices.Clone(origin.children) {
		w.visit(c)
		if w.stopped {
			return
		}
	}
}

func (SameTreeLevel) walk(origin *Node, w *walker) {
	for _, n := range slices.Clone(origin.level()) {
		w.visit(n)
		if w.stopped {
			return
		}
	}
}

func (WholeTreeScan) walk(origin *Node, w *walker) {
	for _, c := range slices.Clone(origin.scene.registry) {
		w.component(c)
		if w.stopped {
			return
		}
	}
}

func (noTraversal) walk(*Node, *walker) {}

// --- Compound ---

// Compound runs an ordered list of algorithms and yields the concatenation of
// their results. Mutate it before enumerating; changes made during an
// enumeration apply to the next one.
type Compound struct {
	steps []Algorithm
}

// NewCompound returns a Compound running steps in order.
func NewCompound(steps ...Algorithm) *Compound {
	c := &Compound{}
	for _, a := range steps {
		c.Add(a)
	}
	return c
}

// Add appends a to the steps. Panics if a is nil or would make c contain itself.
func (c *Compound) Add(a Algorithm) *Compound {
	c.checkStep(a)
	c.steps = append(c.steps, a)
	return c
}

// Insert inserts a at index i.
func (c *Compound) Insert(i int, a Algorithm) *Compound {
	c.checkStep(a)
	if i < 0 || i > len(c.steps) {
		panic("grove: compound index out of range")
	}
	c.steps = slices.Insert(c.steps, i, a)
	return c
}

// Remove deletes the step at index i.
func (c *Compound) Remove(i int) *Compound {
	if i < 0 || i >= len(c.steps) {
		panic("grove: compound index out of range")
	}
	c.steps = slices.Delete(c.steps, i, i+1)
	return c
}

// Len returns the number of steps.
func (c *Compound) Len() int {
	return len(c.steps)
}

// At returns the step at index i.
func (c *Compound) At(i int) Algorithm {
	return c.steps[i]
}

func (c *Compound) String() string {
	names := make([]string, len(c.steps))
	for i, a := range c.steps {
		names[i] = a.String()
	}
	return "compound(" + strings.Join(names, ", ") + ")"
}

func (c *Compound) walk(origin *Node, w *walker) {
	for _, a := range slices.Clone(c.steps) {
		a.walk(origin, w)
		if w.stopped {
			return
		}
	}
}

func (c *Compound) checkStep(a Algorithm) {
	if a == nil {
		panic("grove: nil algorithm")
	}
	if sub, ok := a.(*Compound); ok && sub.reaches(c) {
		panic("grove: compound would contain itself")
	}
}

// reaches reports whether target is c or nested anywhere inside c.
func (c *Compound) reaches(target *Compound) bool {
	if c == target {
		return true
	}
	for _, a := range c.steps {
		if sub, ok := a.(*Compound); ok && sub.reaches(target) {
			return true
		}
	}
	return false
}

// ParseAlgorithm returns the algorithm named by s, as produced by String.
// Compound algorithms cannot be parsed.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "descendants-breadth-first", "bfs", "breadth-first":
		return DescendantsBreadthFirst{}, nil
	case "descendants-depth-first", "dfs", "depth-first":
		return DescendantsDepthFirst{}, nil
	case "ancestors":
		return Ancestors{}, nil
	case "ancestors-top-down", "top-down":
		return AncestorsTopDown{}, nil
	case "immediate-children", "children":
		return ImmediateChildren{}, nil
	case "same-tree-level", "siblings":
		return SameTreeLevel{}, nil
	case "whole-tree", "wholetree":
		return WholeTreeScan{}, nil
	case "none":
		return noTraversal{}, nil
	}
	return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidArgument, s)
}

// --- Walker ---

// walker is the per-enumeration visiting state shared by all algorithms.
// Visibility is applied here, before any filter sees a candidate.
type walker struct {
	policy Visibility
	// typed reports whether c is of the queried type.
	typed func(c Component) bool
	// emit offers a visible candidate of the queried type; false stops the walk.
	emit    func(c Component) bool
	stopped bool
}

// visit offers the components of n and reports whether the walk may descend
// into n's children.
func (w *walker) visit(n *Node) bool {
	if !n.Active && w.policy&(SkipInactive|HaltInactive) != 0 {
		return w.policy&HaltInactive == 0
	}
	descend := true
	for _, c := range slices.Clone(n.components) {
		if !w.typed(c) {
			continue
		}
		if !componentEnabled(c) && w.policy&(SkipDisabled|HaltDisabled) != 0 {
			if w.policy&HaltDisabled != 0 {
				descend = false
			}
			continue
		}
		if !w.emit(c) {
			w.stopped = true
			return false
		}
	}
	return descend
}

// component offers a single component found without walking, applying the
// skip half of the visibility policy.
func (w *walker) component(c Component) {
	if !w.typed(c) {
		return
	}
	if n := c.Node(); n != nil && !n.Active && w.policy&(SkipInactive|HaltInactive) != 0 {
		return
	}
	if !componentEnabled(c) && w.policy&(SkipDisabled|HaltDisabled) != 0 {
		return
	}
	if !w.emit(c) {
		w.stopped = true
	}
}
