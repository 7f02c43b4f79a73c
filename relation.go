package grove

import (
	"fmt"
	"strings"
)

// Relation names a topological relationship between an origin node and the
// nodes searched for candidates.
type Relation uint8

const (
	None       Relation = iota // no traversal; queries yield nothing
	Sibling                    // the origin's tree level, origin node included
	Parent                     // ancestors, nearest first
	Child                      // direct children only
	Ancestor                   // ancestors, root first
	Descendant                 // the origin's subtree, breadth-first
	WholeTree                  // every component in the scene
)

var relationNames = [...]string{
	None:       "none",
	Sibling:    "sibling",
	Parent:     "parent",
	Child:      "child",
	Ancestor:   "ancestor",
	Descendant: "descendant",
	WholeTree:  "whole-tree",
}

func (r Relation) String() string {
	if int(r) < len(relationNames) {
		return relationNames[r]
	}
	return fmt.Sprintf("Relation(%d)", uint8(r))
}

// ParseRelation parses a relation name as produced by String. Matching is
// case-insensitive and also accepts "wholetree".
func ParseRelation(s string) (Relation, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "wholetree" {
		return WholeTree, nil
	}
	for i, n := range relationNames {
		if n == name {
			return Relation(i), nil
		}
	}
	return None, fmt.Errorf("%w: unknown relation %q", ErrInvalidArgument, s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Relation) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Relation) UnmarshalText(text []byte) error {
	v, err := ParseRelation(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Flag returns the RelationFlags bit for r. None has no bit.
func (r Relation) Flag() RelationFlags {
	if r == None || int(r) >= len(relationNames) {
		return 0
	}
	return 1 << (r - 1)
}

// Algorithm returns the canonical traversal algorithm for r.
func (r Relation) Algorithm() Algorithm {
	switch r {
	case Sibling:
		return SameTreeLevel{}
	case Parent:
		return Ancestors{}
	case Child:
		return ImmediateChildren{}
	case Ancestor:
		return AncestorsTopDown{}
	case Descendant:
		return DescendantsBreadthFirst{}
	case WholeTree:
		return WholeTreeScan{}
	default:
		return noTraversal{}
	}
}

// admitsSameNode reports whether the relation's own node is part of what it
// names. Sibling components live on the origin node itself.
func (r Relation) admitsSameNode() bool {
	return r == Sibling
}

// RelationFlags is a set of relations searched in a fixed order: Sibling,
// Parent, Child, Ancestor, Descendant, WholeTree. The first relation to yield
// a match wins, so the set is an ordered union.
type RelationFlags uint8

// Has reports whether r is in the set.
func (f RelationFlags) Has(r Relation) bool {
	bit := r.Flag()
	return bit != 0 && f&bit != 0
}

// Add returns the set with r added.
func (f RelationFlags) Add(r Relation) RelationFlags {
	return f | r.Flag()
}

// Relations returns the members of the set in search order.
func (f RelationFlags) Relations() []Relation {
	var out []Relation
	for r := Sibling; r <= WholeTree; r++ {
		if f.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Algorithm returns a Compound running each member's canonical algorithm in
// search order.
func (f RelationFlags) Algorithm() *Compound {
	c := NewCompound()
	for _, r := range f.Relations() {
		c.Add(r.Algorithm())
	}
	return c
}

func (f RelationFlags) admitsSameNode() bool {
	return f.Has(Sibling)
}

func (f RelationFlags) String() string {
	rs := f.Relations()
	if len(rs) == 0 {
		return None.String()
	}
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.String()
	}
	return strings.Join(names, "|")
}

// ParseRelationFlags parses a "|" or "," separated list of relation names.
func ParseRelationFlags(s string) (RelationFlags, error) {
	var f RelationFlags
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		r, err := ParseRelation(part)
		if err != nil {
			return 0, err
		}
		f = f.Add(r)
	}
	return f, nil
}

// MarshalText implements encoding.TextMarshaler.
func (f RelationFlags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *RelationFlags) UnmarshalText(text []byte) error {
	v, err := ParseRelationFlags(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Relations builds a RelationFlags set from rs.
func Relations(rs ...Relation) RelationFlags {
	var f RelationFlags
	for _, r := range rs {
		f = f.Add(r)
	}
	return f
}
