package grove

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type foo struct {
	Behavior
	Label string
}

type bar struct {
	Base
	Label string
}

// fixture is the tree
//
//	root (foo)
//	├─ a (foo)
//	│  ├─ a1 (foo)
//	│  └─ a2 (bar)
//	└─ b (foo)
//	   └─ b1 (foo)
type fixture struct {
	scene                  *Scene
	root, a, a1, a2, b, b1 *Node
	foos                   map[string]*foo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newTestScene()
	f := &fixture{scene: s, foos: map[string]*foo{}}
	f.root = s.NewNode("root")
	f.a = f.root.NewChild("a")
	f.a1 = f.a.NewChild("a1")
	f.a2 = f.a.NewChild("a2")
	f.b = f.root.NewChild("b")
	f.b1 = f.b.NewChild("b1")

	for _, n := range []*Node{f.root, f.a, f.a1} {
		f.foos[n.Name] = Attach(n, &foo{Label: n.Name})
	}
	Attach(f.a2, &bar{Label: "a2"})
	for _, n := range []*Node{f.b, f.b1} {
		f.foos[n.Name] = Attach(n, &foo{Label: n.Name})
	}
	return f
}

func labels(items []*foo) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}
	return out
}

// --- Canonical algorithms ---

func TestBreadthFirstScenario(t *testing.T) {
	s := newTestScene()
	root := s.NewNode("Root")
	a := root.NewChild("A")
	a1 := a.NewChild("A1")
	b := root.NewChild("B")
	fa := Attach(a, &foo{Label: "A"})
	fa1 := Attach(a1, &foo{Label: "A1"})
	Attach(b, &bar{Label: "B"})

	got := QueryWith[*foo](root, DescendantsBreadthFirst{}).Collect()
	assert.Equal(t, []*foo{fa, fa1}, got)
}

func TestBreadthFirstLevelOrder(t *testing.T) {
	f := newFixture(t)
	got := QueryWith[*foo](f.root, DescendantsBreadthFirst{}).Collect()
	assert.Equal(t, []string{"a", "b", "a1", "b1"}, labels(got))

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Node().Depth(), got[i].Node().Depth(),
			"%s yielded before shallower %s", got[i-1].Label, got[i].Label)
	}
}

func TestDepthFirstPreOrder(t *testing.T) {
	f := newFixture(t)
	got := QueryWith[*foo](f.root, DescendantsDepthFirst{}).Collect()
	assert.Equal(t, []string{"a", "a1", "b", "b1"}, labels(got))
}

func TestAncestorsSymmetry(t *testing.T) {
	f := newFixture(t)
	for _, origin := range []*Node{f.root, f.a, f.a1, f.b1} {
		up := QueryWith[*foo](origin, Ancestors{}).IncludeSameNode(true).Collect()
		down := QueryWith[*foo](origin, AncestorsTopDown{}).IncludeSameNode(true).Collect()
		reversed := make([]*foo, len(up))
		for i, v := range up {
			reversed[len(up)-1-i] = v
		}
		assert.Equal(t, down, reversed, "origin %s", origin.Name)
	}

	up := QueryWith[*foo](f.a1, Ancestors{}).IncludeSameNode(true).Collect()
	assert.Equal(t, []string{"a1", "a", "root"}, labels(up))
}

func TestImmediateChildren(t *testing.T) {
	f := newFixture(t)
	got := QueryWith[*foo](f.root, ImmediateChildren{}).Collect()
	assert.Equal(t, []string{"a", "b"}, labels(got))

	assert.Empty(t, QueryWith[*foo](f.b1, ImmediateChildren{}).Collect())
}

func TestSameTreeLevel(t *testing.T) {
	f := newFixture(t)

	// The bare algorithm excludes the origin's own node.
	got := QueryWith[*foo](f.a, SameTreeLevel{}).Collect()
	assert.Equal(t, []string{"b"}, labels(got))

	// The Sibling relation names the origin's own node too.
	got = NewQuery[*foo](f.a, Sibling).Collect()
	assert.Equal(t, []string{"a", "b"}, labels(got))

	// Roots are siblings of each other.
	other := f.scene.NewNode("other")
	o := Attach(other, &foo{Label: "other"})
	got = QueryWith[*foo](f.root, SameTreeLevel{}).Collect()
	assert.Equal(t, []*foo{o}, got)
}

func TestWholeTreeScan(t *testing.T) {
	f := newFixture(t)
	got := QueryWith[*foo](f.a1, WholeTreeScan{}).Collect()
	assert.Equal(t, []string{"root", "a", "b", "b1"}, labels(got))

	bars := NewQuery[*bar](f.b1, WholeTree).Collect()
	require.Len(t, bars, 1)
	assert.Equal(t, "a2", bars[0].Label)
}

func TestNoneYieldsNothing(t *testing.T) {
	f := newFixture(t)
	assert.Zero(t, NewQuery[*foo](f.root, None).Count())
	assert.Equal(t, "none", None.Algorithm().String())
}

func TestQueryByInterface(t *testing.T) {
	f := newFixture(t)
	got := QueryWith[Component](f.a, DescendantsBreadthFirst{}).Collect()
	// a1 (foo) and a2 (bar), origin excluded.
	assert.Len(t, got, 2)
}

// --- Compound ---

func TestCompoundConcatenates(t *testing.T) {
	f := newFixture(t)
	c := NewCompound(ImmediateChildren{}, Ancestors{})
	got := QueryWith[*foo](f.a, c).Collect()
	assert.Equal(t, []string{"a1", "root"}, labels(got))
	assert.Equal(t, "compound(immediate-children, ancestors)", c.String())
}

func TestCompoundMutation(t *testing.T) {
	c := NewCompound(Ancestors{})
	c.Add(ImmediateChildren{})
	c.Insert(0, SameTreeLevel{})
	require.Equal(t, 3, c.Len())
	assert.Equal(t, SameTreeLevel{}, c.At(0))

	c.Remove(1)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, ImmediateChildren{}, c.At(1))

	assert.Panics(t, func() { c.Insert(5, Ancestors{}) })
	assert.Panics(t, func() { c.Remove(2) })
}

func TestCompoundRejectsSelfContainment(t *testing.T) {
	outer := NewCompound(Ancestors{})
	inner := NewCompound(outer)
	assert.PanicsWithValue(t, "grove: compound would contain itself", func() { outer.Add(inner) })
	assert.Panics(t, func() { outer.Add(outer) })
	assert.Panics(t, func() { outer.Add(nil) })
}

func TestCompoundNested(t *testing.T) {
	f := newFixture(t)
	inner := NewCompound(ImmediateChildren{})
	outer := NewCompound(inner, inner)
	got := QueryWith[*foo](f.root, outer).Collect()
	assert.Equal(t, []string{"a", "b", "a", "b"}, labels(got))
}

// --- Visibility ---

func TestVisibilityInactive(t *testing.T) {
	f := newFixture(t)
	f.a.Active = false

	tests := []struct {
		name   string
		policy Visibility
		want   []string
	}{
		{"default skips", DefaultVisibility, []string{"b", "a1", "b1"}},
		{"halt prunes", HaltInactive, []string{"b", "b1"}},
		{"include hidden", IncludeHidden, []string{"a", "b", "a1", "b1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewQuery[*foo](f.root, Descendant).Visibility(tt.policy).Collect()
			assert.Equal(t, tt.want, labels(got))
		})
	}
}

func TestVisibilityDisabled(t *testing.T) {
	f := newFixture(t)
	f.foos["a"].SetEnabled(false)

	tests := []struct {
		name   string
		policy Visibility
		want   []string
	}{
		{"default skips", DefaultVisibility, []string{"b", "a1", "b1"}},
		{"halt prunes", SkipInactive | HaltDisabled, []string{"b", "b1"}},
		{"include hidden", IncludeHidden, []string{"a", "b", "a1", "b1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewQuery[*foo](f.root, Descendant).Visibility(tt.policy).Collect()
			assert.Equal(t, tt.want, labels(got))
		})
	}
}

func TestHaltDisabledIgnoresOtherTypes(t *testing.T) {
	f := newFixture(t)
	b := Attach(f.b, &armor{})
	b.SetEnabled(false)

	got := NewQuery[*foo](f.root, Descendant).Visibility(HaltDisabled).Collect()
	assert.Equal(t, []string{"a", "b", "a1", "b1"}, labels(got))
}

func TestWholeTreeSkipsInactive(t *testing.T) {
	f := newFixture(t)
	f.b.Active = false
	got := NewQuery[*foo](f.a1, WholeTree).Collect()
	assert.Equal(t, []string{"root", "a", "b1"}, labels(got))
}

// --- Enumeration ---

func TestQueryRestartable(t *testing.T) {
	f := newFixture(t)
	q := NewQuery[*foo](f.root, Descendant)

	first := q.Collect()
	second := q.Collect()
	assert.Equal(t, first, second)

	q.Named("b1")
	assert.Equal(t, []string{"b1"}, labels(q.Collect()))
}

func TestQueryNestedEnumeration(t *testing.T) {
	f := newFixture(t)
	q := NewQuery[*foo](f.root, Descendant)
	pairs := 0
	for range q.All() {
		for range q.All() {
			pairs++
		}
	}
	assert.Equal(t, 16, pairs)
}

func TestQueryEarlyBreak(t *testing.T) {
	f := newFixture(t)
	q := NewQuery[*foo](f.root, Descendant)

	var seen []string
	for v := range q.All() {
		seen = append(seen, v.Label)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, 4, q.Count())

	v, ok := q.First()
	require.True(t, ok)
	assert.Equal(t, "a", v.Label)
}

func TestQueryDisposedOrigin(t *testing.T) {
	f := newFixture(t)
	q := NewQuery[*foo](f.a, Descendant)
	f.a.Dispose()
	assert.Zero(t, q.Count())
	_, ok := q.First()
	assert.False(t, ok)
}

// --- Parsing ---

func TestParseAlgorithm(t *testing.T) {
	for _, a := range []Algorithm{
		DescendantsBreadthFirst{}, DescendantsDepthFirst{}, Ancestors{}, AncestorsTopDown{},
		ImmediateChildren{}, SameTreeLevel{}, WholeTreeScan{},
	} {
		got, err := ParseAlgorithm(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	got, err := ParseAlgorithm("BFS")
	require.NoError(t, err)
	assert.Equal(t, DescendantsBreadthFirst{}, got)

	_, err = ParseAlgorithm("sideways")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
