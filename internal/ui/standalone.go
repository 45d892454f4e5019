package ui

import (
	"context"
	"log/slog"

	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/brightness"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/events"
)

// Standalone runs the slider as a plain desktop window instead of a
// tray popup.
type Standalone struct {
	win     *gtk.Window
	row     *sliderRow
	presets *gtk.Box
}

// NewStandalone builds a regular titled window holding the same slider
// and preset rows as the popup and shows it immediately. Closing it
// quits the main loop.
func NewStandalone(mgr *brightness.Manager, bus *events.Bus, min, max, step int, logger *slog.Logger) (*Standalone, error) {
	win, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, err
	}
	win.SetTitle("DDC Brightness")
	win.SetTypeHint(gdk.WINDOW_TYPE_HINT_UTILITY)
	win.SetDefaultSize(350, 80)
	win.SetResizable(false)
	win.SetKeepAbove(true)
	win.SetBorderWidth(12)
	win.Connect("destroy", func() { gtk.MainQuit() })

	vbox, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 6)
	if err != nil {
		return nil, err
	}
	win.Add(vbox)

	hbox, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 8)
	if err != nil {
		return nil, err
	}
	vbox.PackStart(hbox, true, true, 0)

	img, err := gtk.ImageNewFromIconName("display-brightness-symbolic", gtk.ICON_SIZE_LARGE_TOOLBAR)
	if err != nil {
		return nil, err
	}
	hbox.PackStart(img, false, false, 0)

	row, err := newSliderRow(bus, "window", min, max, step)
	if err != nil {
		return nil, err
	}
	hbox.PackStart(row.scale, true, true, 0)
	hbox.PackStart(row.valueLabel, false, false, 0)

	presetBox, err := newPresetRow(bus, row)
	if err != nil {
		return nil, err
	}
	vbox.PackStart(presetBox, false, false, 0)

	s := &Standalone{win: win, row: row, presets: presetBox}

	if level, err := mgr.Refresh(context.Background()); err == nil {
		row.setDisplayed(level)
	} else {
		logger.Warn("starting without current level", "error", err)
	}

	bus.Subscribe(func(e events.LevelChangedEvent) {
		if e.Source == "window" {
			return
		}
		glib.IdleAdd(func() { row.setDisplayed(e.Level) })
	})

	win.ShowAll()
	return s, nil
}
