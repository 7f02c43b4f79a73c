package grove

import (
	"cmp"
	"fmt"
	"slices"
)

// CompareBreadthFirst orders shallower nodes first. Nodes at the same depth
// fall back to CompareInspectorOrder.
func CompareBreadthFirst(a, b *Node) int {
	if c := cmp.Compare(a.Depth(), b.Depth()); c != 0 {
		return c
	}
	return CompareInspectorOrder(a, b)
}

// CompareInspectorOrder orders nodes the way a top-to-bottom walk of the tree
// reaches them: at the first diverging ancestor pair the lower sibling index
// wins, and an ancestor sorts before its descendants. Nodes under different
// roots are incomparable and return 0.
func CompareInspectorOrder(a, b *Node) int {
	if a == b {
		return 0
	}
	ca, cb := a.chain(), b.chain()
	if ca[0] != cb[0] {
		return 0
	}
	i := 1
	for i < len(ca) && i < len(cb) && ca[i] == cb[i] {
		i++
	}
	switch {
	case i == len(ca):
		return -1
	case i == len(cb):
		return 1
	}
	return cmp.Compare(ca[i].SiblingIndex(), cb[i].SiblingIndex())
}

// PickOrder names a policy for choosing one of two nodes.
type PickOrder uint8

const (
	PickNone         PickOrder = iota // invalid for Sort
	PickFirstBreadth                  // shallower, then earlier in render order
	PickLastBreadth                   // deeper, then later in render order
	PickRenderFirst                   // earlier in render order
	PickRenderLast                    // later in render order
)

func (o PickOrder) String() string {
	switch o {
	case PickNone:
		return "none"
	case PickFirstBreadth:
		return "first-breadth"
	case PickLastBreadth:
		return "last-breadth"
	case PickRenderFirst:
		return "render-first"
	case PickRenderLast:
		return "render-last"
	default:
		return fmt.Sprintf("PickOrder(%d)", uint8(o))
	}
}

// Sort returns whichever of a and b the order picks. Ties return a. A nil
// argument yields the other one. PickNone and unknown orders are caller
// errors: they are logged on a's scene and a is returned.
func Sort(a, b *Node, order PickOrder) *Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	switch order {
	case PickFirstBreadth:
		return pick(a, b, CompareBreadthFirst(a, b) <= 0)
	case PickLastBreadth:
		return pick(a, b, CompareBreadthFirst(a, b) >= 0)
	case PickRenderFirst:
		return pick(a, b, CompareInspectorOrder(a, b) <= 0)
	case PickRenderLast:
		return pick(a, b, CompareInspectorOrder(a, b) >= 0)
	}
	a.scene.report(Diagnostic{
		Kind:       DiagnosticInvalidSort,
		Searcher:   a.Path(),
		Filters:    "order=" + order.String(),
		Candidates: []string{a.Path(), b.Path()},
	})
	return a
}

func pick(a, b *Node, first bool) *Node {
	if first {
		return a
	}
	return b
}

// SortComponents stably sorts items by the nodes they are attached to using
// compare, e.g. CompareBreadthFirst or CompareInspectorOrder.
func SortComponents[T Component](items []T, compare func(a, b *Node) int) {
	slices.SortStableFunc(items, func(x, y T) int {
		return compare(x.Node(), y.Node())
	})
}
