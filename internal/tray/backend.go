// Package tray presents a single icon-event surface over whichever tray
// backend the desktop actually supports. Backends are tried in ranked
// order at startup; the caller sees the same Event stream regardless of
// which one won.
package tray

import "errors"

// ErrUnavailable is returned by a backend constructor when its tray
// mechanism is not present on this desktop.
var ErrUnavailable = errors.New("tray backend unavailable")

// EventKind discriminates tray icon events.
type EventKind int

// Tray icon event kinds.
const (
	// EventActivate is a left click (or equivalent primary activation).
	EventActivate EventKind = iota
	// EventContextMenu is a right click.
	EventContextMenu
	// EventScroll is a wheel scroll over the icon.
	EventScroll
	// EventQuit is a quit request originating inside the backend
	// (e.g. a built-in menu item).
	EventQuit
)

// Event is one user interaction with the tray icon.
type Event struct {
	Kind EventKind
	// Delta is the scroll direction for EventScroll: positive up,
	// negative down.
	Delta int
}

// Backend is a running tray icon. Events arrives on a single channel
// consumed by the UI loop; backends never call into the UI directly.
type Backend interface {
	// Name identifies the backend for logging.
	Name() string
	// Events returns the interaction stream. Closed by Close.
	Events() <-chan Event
	// SetTooltip updates the icon tooltip where supported.
	SetTooltip(text string)
	// Close tears the icon down and closes the event channel.
	Close() error
}
