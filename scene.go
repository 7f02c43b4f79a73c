package grove

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"
)

// Scene is the top-level object that owns the node tree, the whole-tree
// component registry, diagnostics plumbing, and pending dependency waits.
// A Scene is the composition root for everything grove keeps; there is no
// package-level state.
type Scene struct {
	roots    []*Node
	registry []Component

	nodeIDs      uint32
	componentIDs uint32

	logger  *log.Logger
	sink    DiagnosticSink
	metrics *Metrics
	debug   bool

	waits  []waiter
	script *Script

	disposed bool
}

// NewScene creates an empty scene. Diagnostics are logged at warn level to
// stderr until SetLogger replaces the logger.
func NewScene() *Scene {
	return &Scene{logger: newDefaultLogger()}
}

func newDefaultLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(log.WarnLevel)
	return logger
}

// --- Nodes ---

// CreateNode creates a node named name. With a nil parent the node becomes a
// new scene root; otherwise it is appended to parent's children.
// Fails if the scene or the parent is disposed.
func (s *Scene) CreateNode(name string, parent *Node) (*Node, error) {
	if s.disposed {
		return nil, fmt.Errorf("create node %q: %w", name, ErrSceneDisposed)
	}
	if parent != nil {
		if parent.scene != s {
			return nil, fmt.Errorf("%w: parent %q belongs to another scene", ErrInvalidArgument, parent.Name)
		}
		if parent.disposed {
			return nil, fmt.Errorf("create node %q under %q: %w", name, parent.Name, ErrNodeDisposed)
		}
	}
	s.nodeIDs++
	n := &Node{ID: s.nodeIDs, Name: name, Active: true, scene: s}
	if parent == nil {
		s.roots = append(s.roots, n)
		return n, nil
	}
	parent.AddChild(n)
	return n, nil
}

// NewNode creates a new root node. Panics if the scene is disposed.
func (s *Scene) NewNode(name string) *Node {
	n, err := s.CreateNode(name, nil)
	if err != nil {
		panic(err.Error())
	}
	return n
}

// Roots returns the scene's root nodes in creation order. The returned slice
// MUST NOT be mutated.
func (s *Scene) Roots() []*Node {
	return s.roots
}

// Find returns the node at the slash-separated path of names starting at a
// root (as produced by Node.Path), or nil.
func (s *Scene) Find(path string) *Node {
	if path == "" {
		return nil
	}
	level := s.roots
	var found *Node
	for _, name := range strings.Split(path, "/") {
		found = nil
		for _, n := range level {
			if n.Name == name {
				found = n
				break
			}
		}
		if found == nil {
			return nil
		}
		level = found.children
	}
	return found
}

// Components returns every attached component in registration order. The
// returned slice MUST NOT be mutated.
func (s *Scene) Components() []Component {
	return s.registry
}

func (s *Scene) nextComponentID() uint32 {
	s.componentIDs++
	return s.componentIDs
}

func (s *Scene) register(c Component) {
	s.registry = append(s.registry, c)
}

func (s *Scene) unregister(c Component) {
	if i := slices.Index(s.registry, c); i >= 0 {
		s.registry = slices.Delete(s.registry, i, i+1)
	}
}

// Dispose disposes every node, cancels pending waits, and makes further
// node creation fail with ErrSceneDisposed.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}
	for _, w := range slices.Clone(s.waits) {
		w.cancel()
	}
	s.waits = nil
	for len(s.roots) > 0 {
		s.roots[0].Dispose()
	}
	s.disposed = true
	s.metrics.setPending(0)
}

// IsDisposed reports whether Dispose has been called.
func (s *Scene) IsDisposed() bool {
	return s.disposed
}

// --- Ticking ---

// Update advances the scene by one ebiten tick (1/TPS seconds).
func (s *Scene) Update() {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	s.Tick(time.Second / time.Duration(tps))
}

// Tick advances the scene's script, if any, by one step and pending
// dependency waits by dt. Each pending wait attempts one resolve per tick.
func (s *Scene) Tick(dt time.Duration) {
	if s.disposed {
		return
	}
	if s.script != nil {
		s.script.step(s)
	}
	if len(s.waits) == 0 {
		return
	}
	step := float32(dt.Seconds())
	polling := s.waits
	s.waits = nil
	var live []waiter
	for _, w := range polling {
		if !w.poll(step) {
			live = append(live, w)
		}
	}
	// Callbacks may have cancelled survivors. Waits they registered go after
	// the rest.
	live = slices.DeleteFunc(live, waiter.Done)
	s.waits = append(live, s.waits...)
	s.metrics.setPending(len(s.waits))
}

// NumPending returns the number of dependency waits still polling.
func (s *Scene) NumPending() int {
	return len(s.waits)
}

func (s *Scene) addWait(w waiter) {
	s.waits = append(s.waits, w)
	s.metrics.setPending(len(s.waits))
}

func (s *Scene) removeWait(w waiter) {
	if i := slices.Index(s.waits, w); i >= 0 {
		s.waits = slices.Delete(s.waits, i, i+1)
		s.metrics.setPending(len(s.waits))
	}
}

// --- Plumbing ---

// Logger returns the logger used for diagnostics.
func (s *Scene) Logger() *log.Logger {
	return s.logger
}

// SetLogger replaces the diagnostics logger. A nil logger restores the default.
func (s *Scene) SetLogger(logger *log.Logger) {
	if logger == nil {
		logger = newDefaultLogger()
	}
	s.logger = logger
}

// SetDiagnosticSink sets the optional receiver of resolution diagnostics.
func (s *Scene) SetDiagnosticSink(sink DiagnosticSink) {
	s.sink = sink
}

// SetMetrics attaches resolution metrics. Nil disables them.
func (s *Scene) SetMetrics(m *Metrics) {
	s.metrics = m
	m.setPending(len(s.waits))
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and the
// logger is raised to debug level so successful resolutions are traced.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	if enabled {
		s.logger.SetLevel(log.DebugLevel)
	} else {
		s.logger.SetLevel(log.WarnLevel)
	}
}
