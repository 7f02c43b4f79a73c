package grove

import (
	"slices"
	"strings"
)

// Node is one element of the host tree. Nodes are created by a Scene and
// never move between scenes.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Active marks the node as taking part in queries under the default
	// visibility policy. Only the node's own flag is consulted; see
	// ActiveInHierarchy for the inherited state.
	Active bool

	components []Component
	scene      *Scene
	disposed   bool
}

// Scene returns the scene that owns the node.
func (n *Node) Scene() *Scene {
	return n.scene
}

// NewChild creates a node named name and appends it to n's children.
// Panics if n is disposed.
func (n *Node) NewChild(name string) *Node {
	child, err := n.scene.CreateNode(name, n)
	if err != nil {
		panic(err.Error())
	}
	return child
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first; if it
// was a scene root it stops being one.
// Panics if child is nil, belongs to another scene, or is an ancestor of this
// node (cycle).
func (n *Node) AddChild(child *Node) {
	n.checkAdopt(child, "AddChild")
	child.detach()
	child.Parent = n
	n.children = append(n.children, child)
	if n.scene.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	n.checkAdopt(child, "AddChildAt")
	if index < 0 || index > len(n.children) {
		panic("grove: child index out of range")
	}
	child.detach()
	// detach may have shortened n.children when child was already ours.
	if index > len(n.children) {
		index = len(n.children)
	}
	child.Parent = n
	n.children = slices.Insert(n.children, index, child)
	if n.scene.debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node. The child becomes a scene root.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if n.scene.debug {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("grove: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.scene.roots = append(n.scene.roots, child)
}

// RemoveChildAt removes and returns the child at the given index. The child
// becomes a scene root.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("grove: child index out of range")
	}
	child := n.children[index]
	n.RemoveChild(child)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("grove: child's parent is not this node")
	}
	if index < 0 || index >= len(n.children) {
		panic("grove: child index out of range")
	}
	oldIndex := slices.Index(n.children, child)
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
}

// --- Position ---

// SiblingIndex returns the node's index among its parent's children, or among
// the scene roots for a root node. Returns -1 for a disposed node.
func (n *Node) SiblingIndex() int {
	return slices.Index(n.level(), n)
}

// level returns the sibling list the node lives in.
func (n *Node) level() []*Node {
	if n.Parent != nil {
		return n.Parent.children
	}
	if n.disposed {
		return nil
	}
	return n.scene.roots
}

// Root returns the topmost ancestor of n (n itself for a root).
func (n *Node) Root() *Node {
	r := n
	for r.Parent != nil {
		r = r.Parent
	}
	return r
}

// Depth returns the number of parent steps between n and its root.
func (n *Node) Depth() int {
	d := 0
	for p := n.Parent; p != nil; p = p.Parent {
		d++
	}
	return d
}

// chain returns the ancestor chain from the root down to n, inclusive.
func (n *Node) chain() []*Node {
	var c []*Node
	for p := n; p != nil; p = p.Parent {
		c = append(c, p)
	}
	slices.Reverse(c)
	return c
}

// Path returns the slash-separated names from the root down to n.
func (n *Node) Path() string {
	c := n.chain()
	names := make([]string, len(c))
	for i, p := range c {
		names[i] = p.Name
	}
	return strings.Join(names, "/")
}

// ActiveInHierarchy reports whether n and all of its ancestors are active.
func (n *Node) ActiveInHierarchy() bool {
	for p := n; p != nil; p = p.Parent {
		if !p.Active {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	return other != n && isAncestor(n, other)
}

// --- Disposal ---

// Dispose removes this node from its parent (or the scene roots), marks it and
// all descendants as disposed, and detaches their components.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.detach()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	for _, c := range n.components {
		n.scene.unregister(c)
		b := c.base()
		b.node = nil
		b.id = 0
	}
	n.components = nil
	n.children = nil
	n.Parent = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// checkAdopt panics if child cannot become a child of n.
func (n *Node) checkAdopt(child *Node, op string) {
	if child == nil {
		panic("grove: cannot add nil child")
	}
	if n.scene.debug {
		debugCheckDisposed(n, op+" (parent)")
		debugCheckDisposed(child, op+" (child)")
	}
	if child.scene != n.scene {
		panic("grove: cannot add a child from another scene")
	}
	if isAncestor(child, n) {
		panic("grove: adding child would create a cycle")
	}
}

// detach removes n from its parent's children or from the scene roots
// without touching n's own subtree.
func (n *Node) detach() {
	if n.Parent != nil {
		n.Parent.removeChildByPtr(n)
		n.Parent = nil
		return
	}
	if i := slices.Index(n.scene.roots, n); i >= 0 {
		n.scene.roots = slices.Delete(n.scene.roots, i, i+1)
	}
}

// isAncestor reports whether candidate is an ancestor of node (or node itself).
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	if i := slices.Index(n.children, child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
}
