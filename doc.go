// Package grove is a scene-graph host with a hierarchical component query
// and dependency resolution engine.
//
// Every element of the tree is a [Node]. Nodes belong to a [Scene], form a
// tree through [Node.AddChild], and carry zero or more typed components.
// A component is any struct that embeds [Base] (or [Behavior], which adds an
// enabled flag):
//
//	type Health struct {
//		grove.Behavior
//		HP int
//	}
//
//	scene := grove.NewScene()
//	player := scene.NewNode("player")
//	grove.Attach(player, &Health{HP: 100})
//
// # Queries
//
// A [Query] binds an origin node, a traversal [Algorithm] and a [Filter] into
// a lazy, restartable sequence of typed components:
//
//	for h := range grove.NewQuery[*Health](player, grove.Descendant).Containing("arm").All() {
//		// ...
//	}
//
// A [Relation] selects the canonical algorithm for a topological relationship;
// [RelationFlags] searches several relations in a fixed order and
// [Compound] chains arbitrary algorithms.
//
// # Dependency resolution
//
// [Resolve] finds at most one match and reports missing or ambiguous
// dependencies through the scene's logger and [DiagnosticSink]. [Ensure]
// resolves or creates the component at a host node chosen by the relation.
// [WaitFor] polls once per [Scene.Tick] until the dependency appears or the
// timeout expires. [QueryFor] exposes the query Resolve would run, so callers
// can refine it and pass it to [ResolveQuery] or [WaitForQuery].
//
// Dependency options can be kept in a YAML [Manifest], and a [Script] can
// mutate a scene frame by frame for headless tests.
//
// # Ordering
//
// [CompareBreadthFirst] and [CompareInspectorOrder] give deterministic
// orderings used for tie-breaking; [Sort] picks one of two nodes by a named
// policy.
//
// Everything runs on the goroutine that owns the scene. Nothing in grove
// locks.
package grove
