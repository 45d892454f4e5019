package tray

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/tray/icon"
)

const (
	sniInterface = "org.kde.StatusNotifierItem"
	sniPath      = dbus.ObjectPath("/StatusNotifierItem")
	watcherName  = "org.kde.StatusNotifierWatcher"
	watcherPath  = dbus.ObjectPath("/StatusNotifierWatcher")
)

// sniBackend exports a StatusNotifierItem on the session bus. It is the
// preferred backend: the SNI protocol carries scroll events, which
// systray libraries do not.
type sniBackend struct {
	conn      *dbus.Conn
	busName   string
	props     *prop.Properties
	events    chan Event
	logger    *slog.Logger
	closeOnce sync.Once
}

// newSNI connects to the session bus, verifies a StatusNotifierWatcher
// is present and registers the item with it.
func newSNI(logger *slog.Logger) (Backend, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: session bus: %v", ErrUnavailable, err)
	}

	var hasWatcher bool
	busObj := conn.Object("org.freedesktop.DBus", "/org/freedesktop/DBus")
	if err := busObj.Call("org.freedesktop.DBus.NameHasOwner", 0, watcherName).Store(&hasWatcher); err != nil || !hasWatcher {
		conn.Close()
		return nil, fmt.Errorf("%w: no StatusNotifierWatcher on the bus", ErrUnavailable)
	}

	b := &sniBackend{
		conn:    conn,
		busName: fmt.Sprintf("org.kde.StatusNotifierItem-%d-1", os.Getpid()),
		events:  make(chan Event, 16),
		logger:  logger,
	}

	reply, err := conn.RequestName(b.busName, dbus.NameFlagDoNotQueue)
	if err != nil || reply != dbus.RequestNameReplyPrimaryOwner {
		conn.Close()
		return nil, fmt.Errorf("%w: cannot own %s", ErrUnavailable, b.busName)
	}

	if err := b.export(); err != nil {
		conn.Close()
		return nil, err
	}

	watcher := conn.Object(watcherName, watcherPath)
	if call := watcher.Call(watcherName+".RegisterStatusNotifierItem", 0, b.busName); call.Err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: register with watcher: %v", ErrUnavailable, call.Err)
	}

	return b, nil
}

// export publishes the item object: methods, properties, introspection.
func (b *sniBackend) export() error {
	if err := b.conn.Export(&sniHandler{backend: b}, sniPath, sniInterface); err != nil {
		return fmt.Errorf("export item: %w", err)
	}

	propsSpec := map[string]map[string]*prop.Prop{
		sniInterface: {
			"Category": {Value: "Hardware", Writable: false, Emit: prop.EmitTrue},
			"Id":       {Value: "ddc-brightness-slider", Writable: false, Emit: prop.EmitTrue},
			"Title":    {Value: "DDC Brightness", Writable: true, Emit: prop.EmitTrue},
			"Status":   {Value: "Active", Writable: false, Emit: prop.EmitTrue},
			"IconName": {Value: icon.Name, Writable: false, Emit: prop.EmitTrue},
			// Hosts treat a present ItemIsMenu=false as "activate me on
			// left click" instead of opening the menu.
			"ItemIsMenu": {Value: false, Writable: false, Emit: prop.EmitTrue},
		},
	}
	props, err := prop.Export(b.conn, sniPath, propsSpec)
	if err != nil {
		return fmt.Errorf("export properties: %w", err)
	}
	b.props = props

	node := &introspect.Node{
		Name: string(sniPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name: sniInterface,
				Methods: []introspect.Method{
					{Name: "Activate", Args: []introspect.Arg{
						{Name: "x", Type: "i", Direction: "in"},
						{Name: "y", Type: "i", Direction: "in"},
					}},
					{Name: "SecondaryActivate", Args: []introspect.Arg{
						{Name: "x", Type: "i", Direction: "in"},
						{Name: "y", Type: "i", Direction: "in"},
					}},
					{Name: "ContextMenu", Args: []introspect.Arg{
						{Name: "x", Type: "i", Direction: "in"},
						{Name: "y", Type: "i", Direction: "in"},
					}},
					{Name: "Scroll", Args: []introspect.Arg{
						{Name: "delta", Type: "i", Direction: "in"},
						{Name: "orientation", Type: "s", Direction: "in"},
					}},
				},
			},
		},
	}
	if err := b.conn.Export(introspect.NewIntrospectable(node), sniPath, "org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("export introspection: %w", err)
	}

	return nil
}

// send delivers an event without ever blocking the bus goroutine.
func (b *sniBackend) send(ev Event) {
	select {
	case b.events <- ev:
	default:
		b.logger.Debug("dropping tray event, consumer not keeping up", "kind", ev.Kind)
	}
}

func (b *sniBackend) Name() string { return "sni" }

func (b *sniBackend) Events() <-chan Event { return b.events }

func (b *sniBackend) SetTooltip(text string) {
	if b.props != nil {
		b.props.SetMust(sniInterface, "Title", text)
	}
}

func (b *sniBackend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		_, err = b.conn.ReleaseName(b.busName)
		if cerr := b.conn.Close(); err == nil {
			err = cerr
		}
		close(b.events)
	})
	return err
}

// sniHandler carries only the D-Bus-exported methods so backend
// housekeeping methods do not leak onto the bus.
type sniHandler struct {
	backend *sniBackend
}

// Activate handles a primary (left-click) activation.
func (h *sniHandler) Activate(_, _ int32) *dbus.Error {
	h.backend.send(Event{Kind: EventActivate})
	return nil
}

// SecondaryActivate handles middle-click; treated as primary activation.
func (h *sniHandler) SecondaryActivate(_, _ int32) *dbus.Error {
	h.backend.send(Event{Kind: EventActivate})
	return nil
}

// ContextMenu handles a right-click menu request.
func (h *sniHandler) ContextMenu(_, _ int32) *dbus.Error {
	h.backend.send(Event{Kind: EventContextMenu})
	return nil
}

// Scroll handles wheel scrolling over the icon. Horizontal scrolling is
// ignored.
func (h *sniHandler) Scroll(delta int32, orientation string) *dbus.Error {
	if orientation != "vertical" {
		return nil
	}
	dir := 1
	if delta < 0 {
		dir = -1
	}
	h.backend.send(Event{Kind: EventScroll, Delta: dir})
	return nil
}
