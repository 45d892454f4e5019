package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher for in-process event broadcasting.
// UI surfaces publish brightness intent onto the bus; the apply loop
// subscribes and turns intent into debounced controller writes.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{
		dispatcher: event.NewDispatcher(),
	}
}

// Publish publishes an event to all subscribers.
// Usage: bus.Publish(TargetEvent{Level: 70})
func (b *Bus) Publish(ev Event) {
	switch e := ev.(type) {
	case TargetEvent:
		event.Publish(b.dispatcher, e)
	case DeltaEvent:
		event.Publish(b.dispatcher, e)
	case LevelChangedEvent:
		event.Publish(b.dispatcher, e)
	case ConfigReloadedEvent:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe subscribes to events with a handler function. The handler's
// parameter type determines which events it receives.
// Returns an unsubscribe function.
// Usage: unsub := bus.Subscribe(func(e TargetEvent) { ... })
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(TargetEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(DeltaEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(LevelChangedEvent):
		return event.Subscribe(b.dispatcher, h)
	case func(ConfigReloadedEvent):
		return event.Subscribe(b.dispatcher, h)
	default:
		// No-op for unrecognized handler types
		return func() {}
	}
}
