package grove

import (
	"iter"
	"regexp"
)

// Query binds an origin node, a traversal algorithm, a filter and a
// visibility policy into a lazy sequence of components of type T.
//
// A Query stores configuration only. Each call to All starts a fresh walk
// with the configuration current at that moment, so a Query may be
// enumerated any number of times and reconfigured between enumerations.
type Query[T any] struct {
	origin     *Node
	self       Component
	algorithm  Algorithm
	sameNode   bool
	filter     Filter[T]
	visibility Visibility
}

// NewQuery returns a query over the canonical algorithm of rel.
// Panics if origin is nil.
func NewQuery[T any](origin *Node, rel Relation) *Query[T] {
	if origin == nil {
		panic("grove: query from nil node")
	}
	q := &Query[T]{origin: origin, visibility: DefaultVisibility}
	return q.Relation(rel)
}

// QueryWith returns a query over an explicit algorithm.
// Panics if origin or algorithm is nil.
func QueryWith[T any](origin *Node, algorithm Algorithm) *Query[T] {
	if origin == nil {
		panic("grove: query from nil node")
	}
	q := &Query[T]{origin: origin, visibility: DefaultVisibility}
	return q.Using(algorithm)
}

// QueryFrom returns a query issued by component c: the origin is c's node and
// c itself is excluded unless IncludeSelf is set.
// Panics if c is nil or detached.
func QueryFrom[T any](c Component, rel Relation) *Query[T] {
	if isNilComponent(c) || c.Node() == nil {
		panic("grove: query from detached component")
	}
	q := NewQuery[T](c.Node(), rel)
	q.self = c
	return q
}

// Origin returns the node the query starts from.
func (q *Query[T]) Origin() *Node {
	return q.origin
}

// Algorithm returns the bound traversal algorithm.
func (q *Query[T]) Algorithm() Algorithm {
	return q.algorithm
}

// Using replaces the traversal algorithm.
func (q *Query[T]) Using(algorithm Algorithm) *Query[T] {
	if algorithm == nil {
		panic("grove: nil algorithm")
	}
	q.algorithm = algorithm
	q.sameNode = false
	return q
}

// Relation replaces the algorithm with the canonical one for rel.
func (q *Query[T]) Relation(rel Relation) *Query[T] {
	q.algorithm = rel.Algorithm()
	q.sameNode = rel.admitsSameNode()
	return q
}

// Relations replaces the algorithm with the ordered union of flags.
func (q *Query[T]) Relations(flags RelationFlags) *Query[T] {
	q.algorithm = flags.Algorithm()
	q.sameNode = flags.admitsSameNode()
	return q
}

// With applies fn to the query's filter.
func (q *Query[T]) With(fn func(f *Filter[T])) *Query[T] {
	fn(&q.filter)
	return q
}

// Named requires the candidate node's name to equal name.
func (q *Query[T]) Named(name string) *Query[T] {
	q.filter.Name = name
	return q
}

// Containing requires the candidate node's name to contain s, ignoring case.
func (q *Query[T]) Containing(s string) *Query[T] {
	q.filter.Contains = s
	return q
}

// Matching requires the candidate node's name to match re.
func (q *Query[T]) Matching(re *regexp.Regexp) *Query[T] {
	q.filter.Pattern = re
	return q
}

// Where requires fn to accept the candidate.
func (q *Query[T]) Where(fn func(T) bool) *Query[T] {
	q.filter.Where = fn
	return q
}

// IncludeSelf lets the requesting component match itself.
func (q *Query[T]) IncludeSelf(include bool) *Query[T] {
	q.filter.IncludeSelf = include
	return q
}

// IncludeSameNode lets components on the origin node match.
func (q *Query[T]) IncludeSameNode(include bool) *Query[T] {
	q.filter.IncludeSameNode = include
	return q
}

// Visibility replaces the visibility policy.
func (q *Query[T]) Visibility(v Visibility) *Query[T] {
	q.visibility = v
	return q
}

// All returns the matching components in traversal order.
func (q *Query[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		cfg := *q
		if cfg.origin.disposed {
			return
		}
		w := &walker{
			policy: cfg.visibility,
			typed: func(c Component) bool {
				_, ok := c.(T)
				return ok
			},
		}
		w.emit = func(c Component) bool {
			v := c.(T)
			if !cfg.filter.matches(cfg.origin, cfg.self, c, v, cfg.sameNode) {
				return true
			}
			return yield(v)
		}
		cfg.algorithm.walk(cfg.origin, w)
	}
}

// First returns the first match.
func (q *Query[T]) First() (T, bool) {
	for v := range q.All() {
		return v, true
	}
	var zero T
	return zero, false
}

// Collect returns every match in traversal order.
func (q *Query[T]) Collect() []T {
	var out []T
	for v := range q.All() {
		out = append(out, v)
	}
	return out
}

// Count returns the number of matches.
func (q *Query[T]) Count() int {
	n := 0
	for range q.All() {
		n++
	}
	return n
}
