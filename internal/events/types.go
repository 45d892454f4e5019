package events

// Event type constants for kelindar/event.
const (
	TypeTarget uint32 = iota + 1
	TypeDelta
	TypeLevelChanged
	TypeConfigReloaded
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// TargetEvent carries an absolute brightness target produced by a slider
// or a preset button. Immediate targets bypass the debounce window.
type TargetEvent struct {
	Level     int    `json:"level"`
	Immediate bool   `json:"immediate"`
	Source    string `json:"source"`
}

// Type returns the event type identifier for TargetEvent.
func (e TargetEvent) Type() uint32 { return TypeTarget }

// DeltaEvent carries a relative brightness adjustment from the tray
// scroll wheel. Ticks is positive for up, negative for down.
type DeltaEvent struct {
	Ticks  int    `json:"ticks"`
	Source string `json:"source"`
}

// Type returns the event type identifier for DeltaEvent.
func (e DeltaEvent) Type() uint32 { return TypeDelta }

// LevelChangedEvent announces the current target level so every visible
// surface can track it. Published optimistically, before the write lands.
type LevelChangedEvent struct {
	Level  int    `json:"level"`
	Source string `json:"source"`
}

// Type returns the event type identifier for LevelChangedEvent.
func (e LevelChangedEvent) Type() uint32 { return TypeLevelChanged }

// ConfigReloadedEvent is published when the config file watcher detects
// a change and the new settings have been applied.
type ConfigReloadedEvent struct {
	Device   string `json:"device"`
	Register string `json:"register"`
}

// Type returns the event type identifier for ConfigReloadedEvent.
func (e ConfigReloadedEvent) Type() uint32 { return TypeConfigReloaded }
