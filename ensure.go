package grove

import (
	"errors"
	"fmt"
	"reflect"

	log "github.com/sirupsen/logrus"
)

// Ensure resolves a component of type T over rel, creating one when none
// exists. def builds the new component; when def is nil, T must be a pointer
// to a component struct and a zero value is allocated.
//
// See EnsureWith for where the new component is attached.
func Ensure[T any](origin *Node, rel Relation, def func() Component) (T, error) {
	return EnsureWith[T](origin, ResolveOptions{Relation: rel}, def)
}

// EnsureWith is Ensure with full resolve options. opts.Optional and
// opts.IncludeHidden are forced on, so a component on an inactive node or a
// disabled one still counts as existing.
//
// A missing component is attached to a host chosen by the relation (the
// first member for RelationFlags):
//
//	Sibling           the origin node
//	Child, Descendant a new child node of the origin
//	Parent            the origin's parent, or the origin when it is a root
//	Ancestor          the origin's root
//	WholeTree, None   a new parentless node
//
// None searches the whole tree before creating, so the parentless host is
// found again by the next call. An ambiguous match returns the first
// candidate without error; the ambiguity is still reported.
// Panics if origin is nil.
func EnsureWith[T any](origin *Node, opts ResolveOptions, def func() Component) (T, error) {
	if origin == nil {
		panic("grove: ensure from nil node")
	}
	opts.Optional = true
	opts.IncludeHidden = true
	rel := opts.relation()
	if opts.Relations == 0 && opts.Relation == None {
		opts.Relation = WholeTree
	}
	scene := origin.scene
	var zero T

	v, found, _ := resolve(QueryFor[T](origin, opts), opts)
	if !found && origin.Parent == nil && (rel == Parent || rel == Ancestor) {
		// A root hosts its own Parent and Ancestor dependencies, which the
		// ancestor walk never visits.
		v, found = hostComponent[T](origin, opts)
	}
	if found {
		scene.metrics.ensured(outcomeExisting)
		return v, nil
	}

	c, err := newComponent[T](def)
	if err != nil {
		scene.metrics.ensured(outcomeFailed)
		return zero, err
	}
	host, err := ensureHost(origin, rel, hostName[T]())
	if err == nil {
		err = host.AddComponent(c)
	}
	if err != nil {
		scene.metrics.ensured(outcomeFailed)
		return zero, fmt.Errorf("ensure %s from %q: %w", typeName[T](), origin.Path(), errors.Join(ErrCreation, err))
	}

	scene.metrics.ensured(outcomeCreated)
	scene.logger.WithFields(log.Fields{
		"searcher": origin.Path(),
		"type":     typeName[T](),
		"host":     host.Path(),
	}).Debug("grove: created dependency")
	return c.(T), nil
}

// hostComponent returns the first T attached to host when host passes the
// name filters in opts.
func hostComponent[T any](host *Node, opts ResolveOptions) (T, bool) {
	var zero T
	if opts.Name != "" && host.Name != opts.Name {
		return zero, false
	}
	if opts.Contains != "" && !containsFold(host.Name, opts.Contains) {
		return zero, false
	}
	return GetComponent[T](host)
}

// ensureHost returns the node a new component for rel is attached to.
func ensureHost(origin *Node, rel Relation, name string) (*Node, error) {
	switch rel {
	case Sibling:
		return liveHost(origin)
	case Child, Descendant:
		return origin.scene.CreateNode(name, origin)
	case Parent:
		if origin.Parent != nil {
			return origin.Parent, nil
		}
		return liveHost(origin)
	case Ancestor:
		return liveHost(origin.Root())
	}
	return origin.scene.CreateNode(name, nil)
}

func liveHost(n *Node) (*Node, error) {
	if n.disposed {
		return nil, ErrNodeDisposed
	}
	return n, nil
}

// newComponent builds the component Ensure attaches.
func newComponent[T any](def func() Component) (Component, error) {
	if def != nil {
		c := def()
		if isNilComponent(c) {
			return nil, fmt.Errorf("%w: factory for %s returned nil", ErrInvalidArgument, typeName[T]())
		}
		if _, ok := c.(T); !ok {
			return nil, fmt.Errorf("%w: %T is not assignable to %s", ErrInvalidArgument, c, typeName[T]())
		}
		return c, nil
	}
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Pointer {
		return nil, fmt.Errorf("%w: %s needs a factory", ErrInvalidArgument, t)
	}
	c, ok := reflect.New(t.Elem()).Interface().(Component)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a component", ErrInvalidArgument, t)
	}
	return c, nil
}

// hostName names nodes created to host a T: the bare type name.
func hostName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
