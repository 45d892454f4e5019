package ui

import (
	"context"
	"log/slog"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/updater"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/version"
)

// Menu is the tray context menu.
type Menu struct {
	menu   *gtk.Menu
	upd    *updater.Updater
	logger *slog.Logger
}

// NewMenu builds the right-click menu with the update check and quit
// entries.
func NewMenu(upd *updater.Updater, logger *slog.Logger) (*Menu, error) {
	menu, err := gtk.MenuNew()
	if err != nil {
		return nil, err
	}

	m := &Menu{menu: menu, upd: upd, logger: logger}

	versionItem, err := gtk.MenuItemNewWithLabel("DDC Brightness " + version.Version)
	if err != nil {
		return nil, err
	}
	versionItem.SetSensitive(false)
	menu.Append(versionItem)

	sep, err := gtk.SeparatorMenuItemNew()
	if err != nil {
		return nil, err
	}
	menu.Append(sep)

	checkItem, err := gtk.MenuItemNewWithLabel("Check for Updates")
	if err != nil {
		return nil, err
	}
	checkItem.Connect("activate", func() { go m.checkUpdate() })
	menu.Append(checkItem)

	quitItem, err := gtk.MenuItemNewWithLabel("Quit")
	if err != nil {
		return nil, err
	}
	quitItem.Connect("activate", func() { gtk.MainQuit() })
	menu.Append(quitItem)

	menu.ShowAll()
	return m, nil
}

// Popup shows the menu at the pointer.
func (m *Menu) Popup() {
	m.menu.PopupAtPointer(nil)
}

func (m *Menu) checkUpdate() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := m.upd.Check(ctx)
	if err != nil {
		m.logger.Error("update check failed", "error", err)
		return
	}

	glib.IdleAdd(func() { m.showUpdateDialog(info) })
}

func (m *Menu) showUpdateDialog(info *updater.Info) {
	if !info.Available {
		dlg := gtk.MessageDialogNew(nil, gtk.DIALOG_MODAL, gtk.MESSAGE_INFO,
			gtk.BUTTONS_OK, "You are running the latest version (%s).", info.CurrentVersion)
		dlg.Run()
		dlg.Destroy()
		return
	}

	dlg := gtk.MessageDialogNew(nil, gtk.DIALOG_MODAL, gtk.MESSAGE_QUESTION,
		gtk.BUTTONS_YES_NO, "Version %s is available (current %s). Install now?",
		info.LatestVersion, info.CurrentVersion)
	response := dlg.Run()
	dlg.Destroy()
	if response != gtk.RESPONSE_YES {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := m.upd.Apply(ctx); err != nil {
			m.logger.Error("update failed", "error", err)
			return
		}
		m.logger.Info("update installed, restart to use the new version",
			"version", info.LatestVersion)
	}()
}
