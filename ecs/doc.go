// Package ecs provides ECS adapters for glint's render event stream.
//
// The primary adapter is [NewDonburiSink], which bridges glint render events
// (one per classified re-render, with change details and render counts) into
// a [Donburi] world as typed events. Subscribe to [RenderEventType] in your
// ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	engine.SetRenderSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
