package grove

// Lazy is a caller-owned cell for the resolve-once pattern: the first
// successful resolve is cached and returned from then on.
//
//	type Turret struct {
//		grove.Base
//		target grove.Lazy[*Tracker]
//	}
//
//	func (t *Turret) Tracker() (*Tracker, error) {
//		return t.target.Get(func() (*Tracker, error) {
//			return grove.Resolve[*Tracker](t.Node(), grove.ResolveOptions{Relation: grove.Parent})
//		})
//	}
type Lazy[T any] struct {
	value    T
	resolved bool
}

// Get returns the cached value, or calls resolve and caches its result when it
// succeeds. Errors are returned without caching, so the next Get retries.
func (l *Lazy[T]) Get(resolve func() (T, error)) (T, error) {
	if l.resolved {
		return l.value, nil
	}
	v, err := resolve()
	if err != nil {
		return v, err
	}
	l.value = v
	l.resolved = true
	return v, nil
}

// Resolved reports whether a value is cached.
func (l *Lazy[T]) Resolved() bool {
	return l.resolved
}

// Reset drops the cached value.
func (l *Lazy[T]) Reset() {
	var zero T
	l.value = zero
	l.resolved = false
}
