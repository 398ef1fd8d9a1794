// Package ecs provides ECS adapters for glint.
package ecs

import (
	"github.com/phanxgames/glint"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// RenderEventType is the Donburi event type for glint render events.
// Subscribe to this in your ECS systems to receive one event per classified
// re-render, carrying the render record and the node it landed on.
var RenderEventType = events.NewEventType[glint.RenderEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates a RenderSink backed by a Donburi world. Render
// events are published to RenderEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) glint.RenderSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitRender(ev glint.RenderEvent) {
	RenderEventType.Publish(s.world, ev)
}
