package tray

import (
	"fmt"
	"log/slog"
)

// constructor builds one backend, or fails with ErrUnavailable when its
// mechanism is absent on this desktop.
type constructor struct {
	name  string
	build func(logger *slog.Logger) (Backend, error)
}

// ranked is the preference order. The StatusNotifierItem backend comes
// first because it is the only one delivering scroll events.
var ranked = []constructor{
	{"sni", newSNI},
	{"systray", newSystray},
}

// New tries each known backend in ranked order and returns the first
// one that comes up. No backend available is fatal for the caller: a
// tray app without a tray icon cannot run.
func New(logger *slog.Logger) (Backend, error) {
	for _, c := range ranked {
		backend, err := c.build(logger)
		if err != nil {
			logger.Debug("tray backend unavailable", "backend", c.name, "error", err)
			continue
		}
		logger.Info("tray icon ready", "backend", backend.Name())
		return backend, nil
	}
	return nil, fmt.Errorf("no tray icon backend available")
}
