package ecs

import (
	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// DiagnosticEventType is the Donburi event type for grove diagnostics.
// Subscribe to this in your ECS systems to react to unresolved dependencies.
var DiagnosticEventType = events.NewEventType[grove.Diagnostic]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a DiagnosticSink backed by a Donburi world.
// Diagnostics are published to DiagnosticEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) grove.DiagnosticSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitDiagnostic(d grove.Diagnostic) {
	DiagnosticEventType.Publish(s.world, d)
}
