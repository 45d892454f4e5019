// Package ui renders the GTK surfaces: the tray popup slider, the
// standalone window and the right-click menu. Every surface only
// originates intent events onto the bus and displays levels handed
// back; the apply loop lives in internal/brightness.
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

// Popup is the undecorated slider window toggled from the tray icon.
type Popup struct {
	win     *gtk.Window
	row     *sliderRow
	mgr     *brightness.Manager
	logger  *slog.Logger
	visible bool
}

// NewPopup builds the popup window. It starts hidden; Toggle shows it
// at the pointer.
func NewPopup(mgr *brightness.Manager, bus *events.Bus, min, max, step int, logger *slog.Logger) (*Popup, error) {
	win, err := gtk.WindowNew(gtk.WINDOW_TOPLEVEL)
	if err != nil {
		return nil, err
	}

	win.SetDecorated(false)
	win.SetResizable(false)
	win.SetSkipTaskbarHint(true)
	win.SetSkipPagerHint(true)
	win.SetTypeHint(gdk.WINDOW_TYPE_HINT_DOCK)
	win.SetKeepAbove(true)
	win.SetBorderWidth(8)
	win.SetAcceptFocus(true)
	win.SetPosition(gtk.WIN_POS_MOUSE)

	p := &Popup{win: win, mgr: mgr, logger: logger}

	vbox, err := gtk.BoxNew(gtk.ORIENTATION_VERTICAL, 6)
	if err != nil {
		return nil, err
	}
	win.Add(vbox)

	title, err := gtk.LabelNew("")
	if err != nil {
		return nil, err
	}
	title.SetMarkup("<b>☀ Brightness</b>")
	vbox.PackStart(title, false, false, 0)

	sep1, err := gtk.SeparatorNew(gtk.ORIENTATION_HORIZONTAL)
	if err != nil {
		return nil, err
	}
	vbox.PackStart(sep1, false, false, 0)

	hbox, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 8)
	if err != nil {
		return nil, err
	}
	vbox.PackStart(hbox, true, true, 0)

	p.row, err = newSliderRow(bus, "popup", min, max, step)
	if err != nil {
		return nil, err
	}
	hbox.PackStart(p.row.scale, true, true, 0)
	hbox.PackStart(p.row.valueLabel, false, false, 0)

	sep2, err := gtk.SeparatorNew(gtk.ORIENTATION_HORIZONTAL)
	if err != nil {
		return nil, err
	}
	vbox.PackStart(sep2, false, false, 0)

	presetBox, err := newPresetRow(bus, p.row)
	if err != nil {
		return nil, err
	}
	vbox.PackStart(presetBox, false, false, 0)

	win.Connect("show", func() { p.visible = true })
	win.Connect("hide", func() { p.visible = false })

	// Hide once focus moves away; re-check after a beat because focus
	// flickers while the window maps.
	win.Connect("focus-out-event", func() bool {
		glib.TimeoutAdd(100, func() bool {
			if !p.win.IsActive() {
				p.win.Hide()
			}
			return false
		})
		return false
	})

	win.Connect("key-press-event", func(_ *gtk.Window, ev *gdk.Event) bool {
		keyEvent := gdk.EventKeyNewFromEvent(ev)
		if keyEvent.KeyVal() == gdk.KEY_Escape {
			p.win.Hide()
			return true
		}
		return false
	})

	// A visible popup tracks scroll adjustments announced by the
	// apply loop.
	bus.Subscribe(func(e events.LevelChangedEvent) {
		if e.Source == "popup" {
			return
		}
		glib.IdleAdd(func() {
			if p.visible {
				p.row.setDisplayed(e.Level)
			}
		})
	})

	return p, nil
}

// Toggle hides a visible popup, or refreshes the level and shows it at
// the pointer. The refresh read blocks the UI for up to the tool
// timeout, mirroring the reference behavior.
func (p *Popup) Toggle() {
	if p.visible {
		p.win.Hide()
		return
	}

	if level, err := p.mgr.Refresh(context.Background()); err == nil {
		p.row.setDisplayed(level)
	} else {
		p.logger.Warn("showing popup without current level", "error", err)
	}

	p.win.ShowAll()
	p.win.Present()
	p.win.GrabFocus()
}

// Visible reports whether the popup is currently shown.
func (p *Popup) Visible() bool { return p.visible }
