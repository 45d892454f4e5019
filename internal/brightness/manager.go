// Package brightness turns UI intent into debounced controller writes.
// It is the only place that decides when the external tool actually runs:
// slider drags and scroll bursts collapse to one write per quiescent
// window, presets write immediately.
package brightness

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/ddc"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/events"
)

// Default debounce windows, matching the reference timings.
const (
	DefaultSliderDelay = 150 * time.Millisecond
	DefaultScrollDelay = 100 * time.Millisecond
)

// Controller is the read/write surface the apply loop drives.
// *ddc.Controller satisfies it; tests substitute a fake.
type Controller interface {
	Get(ctx context.Context) (int, error)
	Set(ctx context.Context, value int) error
}

// Config bounds the user-facing brightness range and scroll behavior.
type Config struct {
	Min         int
	Max         int
	ScrollStep  int
	SliderDelay time.Duration
	ScrollDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.Max == 0 {
		c.Max = 100
	}
	if c.ScrollStep == 0 {
		c.ScrollStep = 1
	}
	if c.SliderDelay == 0 {
		c.SliderDelay = DefaultSliderDelay
	}
	if c.ScrollDelay == 0 {
		c.ScrollDelay = DefaultScrollDelay
	}
	return c
}

// Manager subscribes to brightness intent on the event bus and applies
// it through the controller. Scroll adjustments run against an
// optimistic cached level seeded by one real read; the cache is never
// reconciled with external writers during the session.
type Manager struct {
	bus    *events.Bus
	logger *slog.Logger

	sliderDeb *Debouncer
	scrollDeb *Debouncer

	mu        sync.Mutex
	ctrl      Controller
	cfg       Config
	cached    int
	haveCache bool

	unsubs []func()
}

// NewManager creates an apply-loop manager. Call Start to begin
// consuming intent events.
func NewManager(ctrl Controller, bus *events.Bus, cfg Config, logger *slog.Logger) *Manager {
	cfg = cfg.withDefaults()
	return &Manager{
		bus:       bus,
		logger:    logger,
		ctrl:      ctrl,
		cfg:       cfg,
		sliderDeb: NewDebouncer(cfg.SliderDelay),
		scrollDeb: NewDebouncer(cfg.ScrollDelay),
	}
}

// Start subscribes to intent events on the bus.
func (m *Manager) Start() {
	m.unsubs = append(m.unsubs,
		m.bus.Subscribe(func(e events.TargetEvent) { m.handleTarget(e) }),
		m.bus.Subscribe(func(e events.DeltaEvent) { m.handleDelta(e) }),
	)
	m.logger.Debug("brightness manager started",
		"min", m.cfg.Min, "max", m.cfg.Max, "scroll_step", m.cfg.ScrollStep)
}

// Stop unsubscribes and drops any pending debounced write.
func (m *Manager) Stop() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
	m.sliderDeb.Stop()
	m.scrollDeb.Stop()
}

// Refresh reads the current level from the controller. Used by UI
// surfaces when they become visible.
func (m *Manager) Refresh(ctx context.Context) (int, error) {
	m.mu.Lock()
	ctrl := m.ctrl
	m.mu.Unlock()
	return ctrl.Get(ctx)
}

// Reconfigure swaps the controller and range settings, typically after a
// config file reload. The scroll cache is dropped since it may describe
// a different device.
func (m *Manager) Reconfigure(ctrl Controller, cfg Config) {
	cfg = cfg.withDefaults()
	m.mu.Lock()
	m.ctrl = ctrl
	m.cfg = cfg
	m.haveCache = false
	m.mu.Unlock()
	m.logger.Info("brightness manager reconfigured", "min", cfg.Min, "max", cfg.Max)
}

// handleTarget applies an absolute target from a slider or preset.
func (m *Manager) handleTarget(e events.TargetEvent) {
	m.mu.Lock()
	value := ddc.Clamp(e.Level, m.cfg.Min, m.cfg.Max)
	m.mu.Unlock()

	if e.Immediate {
		m.write(value)
		return
	}
	m.sliderDeb.Trigger(func() { m.write(value) })
}

// handleDelta applies a relative scroll adjustment against the cache.
func (m *Manager) handleDelta(e events.DeltaEvent) {
	m.mu.Lock()

	if !m.haveCache {
		ctrl := m.ctrl
		m.mu.Unlock()
		level, err := ctrl.Get(context.Background())
		if err != nil {
			m.logger.Warn("cannot seed brightness cache", "error", err)
			return
		}
		m.mu.Lock()
		m.cached = level
		m.haveCache = true
	}

	next := ddc.Clamp(m.cached+e.Ticks*m.cfg.ScrollStep, m.cfg.Min, m.cfg.Max)
	if next == m.cached {
		// Pinned at a bound: no write, no debounce re-arm
		m.mu.Unlock()
		return
	}
	m.cached = next
	m.mu.Unlock()

	// Optimistic: surfaces show the new level before the write lands
	m.bus.Publish(events.LevelChangedEvent{Level: next, Source: e.Source})

	m.scrollDeb.Trigger(func() { m.write(next) })
}

// write performs one controller write. Failures are logged and dropped;
// there are no retries.
func (m *Manager) write(value int) {
	m.mu.Lock()
	ctrl := m.ctrl
	m.mu.Unlock()

	if err := ctrl.Set(context.Background(), value); err != nil {
		m.logger.Warn("dropping failed brightness write", "value", value, "error", err)
	}
}
