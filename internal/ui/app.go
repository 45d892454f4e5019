package ui

import (
	"log/slog"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/brightness"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/events"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/tray"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/updater"
)

// Config carries the display range shown by the slider surfaces.
type Config struct {
	Min  int
	Max  int
	Step int
}

// App wires the tray backend to the GTK surfaces. Tray events arrive
// on the backend goroutine and are marshaled onto the GTK main loop
// with glib.IdleAdd before they touch any widget.
type App struct {
	popup  *Popup
	menu   *Menu
	bus    *events.Bus
	logger *slog.Logger
}

// New builds the popup and menu and starts consuming tray events.
// gtk.Init must have been called first.
func New(backend tray.Backend, mgr *brightness.Manager, bus *events.Bus, upd *updater.Updater, cfg Config, logger *slog.Logger) (*App, error) {
	if err := installCSS(); err != nil {
		return nil, err
	}

	popup, err := NewPopup(mgr, bus, cfg.Min, cfg.Max, cfg.Step, logger)
	if err != nil {
		return nil, err
	}

	menu, err := NewMenu(upd, logger)
	if err != nil {
		return nil, err
	}

	a := &App{popup: popup, menu: menu, bus: bus, logger: logger}
	go a.consume(backend)
	return a, nil
}

func (a *App) consume(backend tray.Backend) {
	for ev := range backend.Events() {
		ev := ev
		switch ev.Kind {
		case tray.EventActivate:
			glib.IdleAdd(func() { a.popup.Toggle() })
		case tray.EventContextMenu:
			glib.IdleAdd(func() { a.menu.Popup() })
		case tray.EventScroll:
			a.bus.Publish(events.DeltaEvent{Ticks: ev.Delta, Source: "scroll"})
		case tray.EventQuit:
			glib.IdleAdd(func() { gtk.MainQuit() })
		}
	}
}
