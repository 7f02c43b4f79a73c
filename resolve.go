package grove

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SearchOrder decides how Resolve treats several candidates.
type SearchOrder uint8

const (
	// OrderNone treats several candidates as an ambiguous dependency.
	OrderNone SearchOrder = iota
	// OrderUnspecified takes the first candidate in traversal order.
	OrderUnspecified
	// OrderClosest takes the candidate nearest to the origin.
	OrderClosest
	// OrderFarthest takes the candidate farthest from the origin.
	OrderFarthest
)

var searchOrderNames = [...]string{
	OrderNone:        "none",
	OrderUnspecified: "unspecified",
	OrderClosest:     "closest",
	OrderFarthest:    "farthest",
}

func (o SearchOrder) String() string {
	if int(o) < len(searchOrderNames) {
		return searchOrderNames[o]
	}
	return fmt.Sprintf("SearchOrder(%d)", uint8(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o SearchOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *SearchOrder) UnmarshalText(text []byte) error {
	name := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range searchOrderNames {
		if n == name {
			*o = SearchOrder(i)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown search order %q", ErrInvalidArgument, string(text))
}

// ResolveOptions configures Resolve, Ensure and WaitFor.
type ResolveOptions struct {
	// Relation selects the canonical algorithm. Ignored when Relations is set.
	Relation Relation `yaml:"relation"`
	// Relations searches several relations in order, first match wins.
	Relations RelationFlags `yaml:"relations"`

	// Name requires the candidate node's name to equal it.
	Name string `yaml:"name"`
	// Contains requires the candidate node's name to contain it, ignoring case.
	Contains string `yaml:"contains"`
	// Sided requires the candidate to be on the searcher's side ("left" or
	// "right"), as inherited from the nearest node whose name carries a side.
	Sided bool `yaml:"sided"`
	// ExcludeSibling rejects components on the origin node even when the
	// relation would admit them.
	ExcludeSibling bool `yaml:"exclude_sibling"`
	// IncludeHidden disables the visibility policy.
	IncludeHidden bool `yaml:"include_hidden"`

	// Optional makes a missing dependency a silent zero result.
	Optional bool `yaml:"optional"`
	// Order decides how several candidates are handled.
	Order SearchOrder `yaml:"order"`
}

// relation returns the relation whose host Ensure uses.
func (o ResolveOptions) relation() Relation {
	if o.Relations != 0 {
		return o.Relations.Relations()[0]
	}
	return o.Relation
}

func (o ResolveOptions) describe(algorithm Algorithm, side nodeSide) string {
	parts := []string{}
	if o.Relations != 0 {
		parts = append(parts, "relations="+o.Relations.String())
	} else if algorithm != nil {
		parts = append(parts, "algorithm="+algorithm.String())
	}
	if o.Name != "" {
		parts = append(parts, fmt.Sprintf("name=%q", o.Name))
	}
	if o.Contains != "" {
		parts = append(parts, fmt.Sprintf("contains=%q", o.Contains))
	}
	if o.Sided {
		parts = append(parts, "side="+side.String())
	}
	if o.ExcludeSibling {
		parts = append(parts, "exclude-sibling")
	}
	if o.Order != OrderNone {
		parts = append(parts, "order="+o.Order.String())
	}
	return strings.Join(parts, " ")
}

// QueryFor returns the query Resolve runs for opts: the relation or
// relations it names and its visibility. Name, side and order handling stay
// in Resolve.
func QueryFor[T any](origin *Node, opts ResolveOptions) *Query[T] {
	q := NewQuery[T](origin, opts.Relation)
	if opts.Relations != 0 {
		q.Relations(opts.Relations)
	}
	if opts.IncludeHidden {
		q.Visibility(IncludeHidden)
	}
	return q
}

// Resolve finds the single component of type T that opts describe.
//
//   - One candidate: it is returned.
//   - No candidate: the zero value, plus a NotFound *ResolveError unless
//     opts.Optional.
//   - Several candidates: with OrderClosest or OrderFarthest they are sorted
//     and the first wins; with OrderUnspecified the first visited wins; with
//     OrderNone the first visited is returned with an Ambiguous *ResolveError.
//
// Failures are logged and sent to the scene's DiagnosticSink.
// Panics if origin is nil.
func Resolve[T any](origin *Node, opts ResolveOptions) (T, error) {
	if origin == nil {
		panic("grove: resolve from nil node")
	}
	v, _, err := resolve(QueryFor[T](origin, opts), opts)
	return v, err
}

// ResolveQuery resolves over a caller-built query. The query supplies the
// algorithm and filter; opts.Relation, opts.Relations and opts.IncludeHidden
// are ignored.
func ResolveQuery[T any](q *Query[T], opts ResolveOptions) (T, error) {
	v, _, err := resolve(q, opts)
	return v, err
}

// resolve is the engine behind Resolve, Ensure and WaitFor. found reports
// whether a component was returned, which may be true alongside an
// Ambiguous error.
func resolve[T any](q *Query[T], opts ResolveOptions) (v T, found bool, err error) {
	origin := q.origin
	scene := origin.scene
	side := sideNone
	if opts.Sided {
		side = inheritedSide(origin)
	}

	var candidates []T
	seen := make(map[Component]struct{})
	for c := range q.All() {
		comp := any(c).(Component)
		if _, dup := seen[comp]; dup {
			continue
		}
		n := comp.Node()
		if opts.Name != "" && n.Name != opts.Name {
			continue
		}
		if opts.Contains != "" && !containsFold(n.Name, opts.Contains) {
			continue
		}
		if opts.ExcludeSibling && n == origin {
			continue
		}
		if side != sideNone && inheritedSide(n) != side {
			continue
		}
		seen[comp] = struct{}{}
		candidates = append(candidates, c)
		if opts.Order == OrderUnspecified {
			break
		}
	}

	diag := func(kind DiagnosticKind) Diagnostic {
		return Diagnostic{
			Kind:     kind,
			Searcher: origin.Path(),
			Type:     typeName[T](),
			Filters:  opts.describe(q.algorithm, side),
		}
	}

	switch {
	case len(candidates) == 0:
		if opts.Optional {
			scene.metrics.resolved(outcomeMissing)
			return v, false, nil
		}
		d := diag(DiagnosticNotFound)
		scene.report(d)
		scene.metrics.resolved(outcomeNotFound)
		return v, false, &ResolveError{Err: ErrNotFound, Diagnostic: d}

	case len(candidates) == 1:
		v = candidates[0]

	case opts.Order == OrderClosest || opts.Order == OrderFarthest:
		slices.SortStableFunc(candidates, func(a, b T) int {
			c := compareCloseness(origin, nodeOf(a), nodeOf(b))
			if opts.Order == OrderFarthest {
				return -c
			}
			return c
		})
		v = candidates[0]

	default:
		d := diag(DiagnosticAmbiguous)
		for _, c := range candidates {
			d.Candidates = append(d.Candidates, nodeOf(c).Path())
		}
		scene.report(d)
		scene.metrics.resolved(outcomeAmbiguous)
		return candidates[0], true, &ResolveError{Err: ErrAmbiguous, Diagnostic: d}
	}

	scene.metrics.resolved(outcomeFound)
	if scene.logger.IsLevelEnabled(log.DebugLevel) {
		scene.logger.WithFields(log.Fields{
			"searcher": origin.Path(),
			"type":     typeName[T](),
			"found":    nodeOf(v).Path(),
		}).Debug("grove: resolved dependency")
	}
	return v, true, nil
}

// compareCloseness orders a before b when a is nearer to origin: fewer tree
// edges first, then smaller sibling-index distance, then render order.
func compareCloseness(origin, a, b *Node) int {
	if c := cmp.Compare(treeDistance(origin, a), treeDistance(origin, b)); c != 0 {
		return c
	}
	oi := origin.SiblingIndex()
	if c := cmp.Compare(absInt(a.SiblingIndex()-oi), absInt(b.SiblingIndex()-oi)); c != 0 {
		return c
	}
	return CompareInspectorOrder(a, b)
}

// treeDistance counts the edges between a and b through their deepest common
// ancestor. Nodes under different roots are joined through a virtual scene
// level above the roots.
func treeDistance(a, b *Node) int {
	ca, cb := a.chain(), b.chain()
	if ca[0] != cb[0] {
		return len(ca) + len(cb)
	}
	i := 1
	for i < len(ca) && i < len(cb) && ca[i] == cb[i] {
		i++
	}
	return len(ca) - i + len(cb) - i
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// nodeOf returns the node of a value produced by a query.
func nodeOf[T any](v T) *Node {
	return any(v).(Component).Node()
}

// typeName returns a readable name for T.
func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

// --- Sides ---

type nodeSide uint8

const (
	sideNone nodeSide = iota
	sideLeft
	sideRight
)

func (s nodeSide) String() string {
	switch s {
	case sideLeft:
		return "left"
	case sideRight:
		return "right"
	default:
		return "none"
	}
}

// sideOf returns the side token carried by name, if any.
func sideOf(name string) nodeSide {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "left"):
		return sideLeft
	case strings.Contains(lower, "right"):
		return sideRight
	default:
		return sideNone
	}
}

// inheritedSide returns the side of the nearest node, n first, whose name
// carries a side token.
func inheritedSide(n *Node) nodeSide {
	for p := n; p != nil; p = p.Parent {
		if s := sideOf(p.Name); s != sideNone {
			return s
		}
	}
	return sideNone
}
