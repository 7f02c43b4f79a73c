package grove

import (
	"fmt"
	"reflect"
	"slices"
)

// Component is a typed unit of behavior or data attached to exactly one Node.
// Implement it by embedding Base or Behavior in a struct and using a pointer
// to that struct:
//
//	type Weapon struct {
//		grove.Base
//		Damage int
//	}
type Component interface {
	// Node returns the node the component is attached to, or nil.
	Node() *Node
	base() *Base
}

// Base carries the attachment state every component needs. Embed it by value.
type Base struct {
	node *Node
	id   uint32
}

// Node returns the owning node, or nil when the component is detached.
func (b *Base) Node() *Node { return b.node }

// ComponentID returns the scene-unique ID assigned on attach, or 0.
func (b *Base) ComponentID() uint32 { return b.id }

func (b *Base) base() *Base { return b }

// Behavior is a Base with an enabled flag. Disabled behaviors are hidden from
// queries under the default visibility policy. The zero value is enabled.
type Behavior struct {
	Base
	disabled bool
}

// Enabled reports whether the behavior is enabled.
func (b *Behavior) Enabled() bool { return !b.disabled }

// SetEnabled enables or disables the behavior.
func (b *Behavior) SetEnabled(enabled bool) { b.disabled = !enabled }

// enabler is implemented by component kinds whose enabled state is meaningful.
type enabler interface {
	Enabled() bool
}

// componentEnabled reports the enabled state of c. Components without an
// enabled flag are always enabled.
func componentEnabled(c Component) bool {
	if e, ok := c.(enabler); ok {
		return e.Enabled()
	}
	return true
}

// isNilComponent reports whether c is nil or a typed nil pointer.
func isNilComponent(c Component) bool {
	if c == nil {
		return true
	}
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// --- Attachment ---

// AddComponent attaches c to the node and registers it with the scene.
// Fails if the node is disposed or c is already attached to a node.
func (n *Node) AddComponent(c Component) error {
	if isNilComponent(c) {
		return fmt.Errorf("%w: nil component", ErrInvalidArgument)
	}
	if n.disposed {
		return fmt.Errorf("add %T to %q: %w", c, n.Name, ErrNodeDisposed)
	}
	b := c.base()
	if b.node != nil {
		return fmt.Errorf("%w: %T is already attached to %q", ErrInvalidArgument, c, b.node.Path())
	}
	b.node = n
	b.id = n.scene.nextComponentID()
	n.components = append(n.components, c)
	n.scene.register(c)
	return nil
}

// Attach attaches c to n and returns it. Panics if the attach fails.
func Attach[T Component](n *Node, c T) T {
	if err := n.AddComponent(c); err != nil {
		panic(err.Error())
	}
	return c
}

// RemoveComponent detaches c from the node. Reports whether c was attached here.
func (n *Node) RemoveComponent(c Component) bool {
	if isNilComponent(c) {
		return false
	}
	i := slices.Index(n.components, c)
	if i < 0 {
		return false
	}
	n.components = slices.Delete(n.components, i, i+1)
	n.scene.unregister(c)
	b := c.base()
	b.node = nil
	b.id = 0
	return true
}

// Components returns the node's components in attach order. The returned
// slice MUST NOT be mutated by the caller.
func (n *Node) Components() []Component {
	return n.components
}

// NumComponents returns the number of attached components.
func (n *Node) NumComponents() int {
	return len(n.components)
}

// ComponentsOf returns the components of n that are of type T, in attach order.
func ComponentsOf[T any](n *Node) []T {
	var out []T
	for _, c := range n.components {
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// GetComponent returns the first component of n that is of type T.
func GetComponent[T any](n *Node) (T, bool) {
	for _, c := range n.components {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
