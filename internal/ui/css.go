package ui

import (
	"github.com/gotk3/gotk3/gdk"
	"github.com/gotk3/gotk3/gtk"
)

const popupCSS = `
window {
    background-color: @theme_bg_color;
    border: 1px solid @borders;
}
button {
    min-height: 24px;
    padding: 2px 4px;
    font-size: 11px;
}
`

// installCSS applies the popup styling to the default screen.
func installCSS() error {
	provider, err := gtk.CssProviderNew()
	if err != nil {
		return err
	}
	if err := provider.LoadFromData(popupCSS); err != nil {
		return err
	}

	screen, err := gdk.ScreenGetDefault()
	if err != nil {
		return err
	}
	gtk.AddProviderForScreen(screen, provider, gtk.STYLE_PROVIDER_PRIORITY_APPLICATION)
	return nil
}
