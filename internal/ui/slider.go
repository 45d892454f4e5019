package ui

import (
	"fmt"

	"github.com/gotk3/gotk3/gtk"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/events"
)

// presets are the quick-set percentages below the slider.
var presets = []int{1, 10, 25, 50, 75, 100}

// sliderRow is the scale + value label pair shared by the popup and the
// standalone window. Programmatic updates go through setDisplayed so
// they never feed back into the bus as user intent.
type sliderRow struct {
	scale      *gtk.Scale
	valueLabel *gtk.Label
	bus        *events.Bus
	source     string
	applying   bool
}

// newSliderRow builds the scale and its label, wired to publish
// TargetEvents on the bus.
func newSliderRow(bus *events.Bus, source string, min, max, step int) (*sliderRow, error) {
	adj, err := gtk.AdjustmentNew(float64(min), float64(min), float64(max),
		float64(step), float64(step*2), 0)
	if err != nil {
		return nil, err
	}

	scale, err := gtk.ScaleNew(gtk.ORIENTATION_HORIZONTAL, adj)
	if err != nil {
		return nil, err
	}
	scale.SetDigits(0)
	scale.SetDrawValue(false)
	scale.SetSizeRequest(200, -1)
	scale.SetCanFocus(true)
	for tick := min; tick <= max; tick += 25 {
		scale.AddMark(float64(tick), gtk.POS_BOTTOM, "")
	}

	valueLabel, err := gtk.LabelNew("")
	if err != nil {
		return nil, err
	}
	valueLabel.SetWidthChars(5)

	r := &sliderRow{
		scale:      scale,
		valueLabel: valueLabel,
		bus:        bus,
		source:     source,
	}

	scale.Connect("value-changed", func() {
		if r.applying {
			return
		}
		value := int(scale.GetValue())
		valueLabel.SetText(fmt.Sprintf("%d%%", value))
		bus.Publish(events.TargetEvent{Level: value, Source: source})
	})

	return r, nil
}

// setDisplayed moves the scale and label without emitting intent.
func (r *sliderRow) setDisplayed(value int) {
	r.applying = true
	r.scale.SetValue(float64(value))
	r.valueLabel.SetText(fmt.Sprintf("%d%%", value))
	r.applying = false
}

// newPresetRow builds the row of preset buttons. Presets bypass the
// debounce window: they publish immediate targets.
func newPresetRow(bus *events.Bus, row *sliderRow) (*gtk.Box, error) {
	box, err := gtk.BoxNew(gtk.ORIENTATION_HORIZONTAL, 4)
	if err != nil {
		return nil, err
	}
	box.SetHomogeneous(true)

	for _, preset := range presets {
		value := preset
		btn, err := gtk.ButtonNewWithLabel(fmt.Sprintf("%d%%", value))
		if err != nil {
			return nil, err
		}
		btn.Connect("clicked", func() {
			row.setDisplayed(value)
			bus.Publish(events.TargetEvent{Level: value, Immediate: true, Source: "preset"})
		})
		box.PackStart(btn, true, true, 0)
	}

	return box, nil
}
