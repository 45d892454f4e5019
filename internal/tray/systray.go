package tray

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/energye/systray"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/tray/icon"
)

// systrayBackend falls back to the systray library when exporting our
// own StatusNotifierItem failed. It delivers clicks and a menu but no
// scroll events; scroll adjustment is simply unavailable on it.
type systrayBackend struct {
	events    chan Event
	logger    *slog.Logger
	closeOnce sync.Once
}

// newSystray starts the systray loop on its own goroutine. The library
// drives a D-Bus connection internally, so it coexists with the GTK
// main loop owned by the UI.
func newSystray(logger *slog.Logger) (Backend, error) {
	if os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" && os.Getenv("DISPLAY") == "" {
		return nil, fmt.Errorf("%w: no session bus or display", ErrUnavailable)
	}

	b := &systrayBackend{
		events: make(chan Event, 16),
		logger: logger,
	}

	ready := make(chan struct{})
	go systray.Run(func() {
		systray.SetIcon(icon.Data)
		systray.SetTooltip("DDC Brightness")

		slider := systray.AddMenuItem("Brightness Slider", "Open the brightness slider")
		slider.Click(func() { b.send(Event{Kind: EventActivate}) })

		systray.AddSeparator()

		quit := systray.AddMenuItem("Quit", "Quit DDC Brightness")
		quit.Click(func() { b.send(Event{Kind: EventQuit}) })

		systray.SetOnClick(func(_ systray.IMenu) { b.send(Event{Kind: EventActivate}) })
		systray.SetOnRClick(func(menu systray.IMenu) {
			if err := menu.ShowMenu(); err != nil {
				b.logger.Warn("cannot show tray menu", "error", err)
			}
		})

		close(ready)
	}, nil)

	<-ready
	return b, nil
}

// send delivers an event without blocking the systray callback.
func (b *systrayBackend) send(ev Event) {
	select {
	case b.events <- ev:
	default:
		b.logger.Debug("dropping tray event, consumer not keeping up", "kind", ev.Kind)
	}
}

func (b *systrayBackend) Name() string { return "systray" }

func (b *systrayBackend) Events() <-chan Event { return b.events }

func (b *systrayBackend) SetTooltip(text string) {
	systray.SetTooltip(text)
}

func (b *systrayBackend) Close() error {
	b.closeOnce.Do(func() {
		systray.Quit()
		close(b.events)
	})
	return nil
}
