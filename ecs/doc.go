// Package ecs provides ECS adapters for grove's resolution diagnostics.
//
// The primary adapter is [NewDonburiSink], which bridges grove diagnostics
// (missing, ambiguous and timed-out dependencies) into a [Donburi] world as
// typed events. Subscribe to [DiagnosticEventType] in your ECS systems to
// receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetDiagnosticSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
