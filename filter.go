package grove

import (
	"regexp"
	"strings"
)

// Visibility controls how inactive nodes and disabled components take part in
// a traversal. Skip flags hide candidates but keep walking; halt flags also
// stop descendant-style algorithms from entering the subtree below.
type Visibility uint8

const (
	SkipInactive Visibility = 1 << iota // inactive nodes contribute no candidates
	HaltInactive                        // ... and their children are not visited
	SkipDisabled                        // disabled components are not candidates
	HaltDisabled                        // ... and a node holding one is not descended into
)

const (
	// DefaultVisibility hides inactive nodes and disabled components without
	// pruning the tree.
	DefaultVisibility = SkipInactive | SkipDisabled

	// IncludeHidden treats every node as active and every component as enabled.
	IncludeHidden Visibility = 0
)

// Filter holds the per-query predicates. Every set constraint must hold for a
// candidate to pass; the zero Filter matches everything except the origin's
// own component and node.
type Filter[T any] struct {
	// Name, if set, must equal the candidate node's name.
	Name string
	// Contains, if set, must be a case-insensitive substring of the node's name.
	Contains string
	// Pattern, if set, must match the node's name.
	Pattern *regexp.Regexp
	// Where, if set, must return true for the candidate.
	Where func(T) bool

	// IncludeSelf lets the requesting component match itself.
	IncludeSelf bool
	// IncludeSameNode lets the requesting node's other components match.
	IncludeSameNode bool
}

// matches evaluates f for candidate c (already asserted to v). origin and self
// describe the requester; self may be nil. sameNode admits the origin node's
// components when the relation itself names them.
func (f *Filter[T]) matches(origin *Node, self, c Component, v T, sameNode bool) bool {
	name := c.Node().Name
	if f.Name != "" && name != f.Name {
		return false
	}
	if f.Contains != "" && !containsFold(name, f.Contains) {
		return false
	}
	if f.Pattern != nil && !f.Pattern.MatchString(name) {
		return false
	}
	if self != nil && c == self {
		if !f.IncludeSelf {
			return false
		}
	} else if c.Node() == origin && !f.IncludeSameNode && !sameNode {
		return false
	}
	if f.Where != nil && !f.Where(v) {
		return false
	}
	return true
}

// containsFold reports whether substr is within s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
