// Package ddc wraps the external ddccontrol tool behind a small
// read/write brightness controller. DDC/CI itself is never spoken here;
// the tool owns the I2C conversation and this package only parses its
// textual output.
package ddc

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single ddccontrol invocation.
const DefaultTimeout = 5 * time.Second

// DefaultTool is the external DDC/CI command-line tool.
const DefaultTool = "ddccontrol"

// ErrUnknown is returned by Get when the current brightness cannot be
// determined: tool missing, invocation timed out, or output unparsable.
var ErrUnknown = fmt.Errorf("brightness unknown")

// Config fixes which external target read and write calls address.
// A Controller never mutates its config; build a new one on change.
type Config struct {
	Tool     string        // tool binary, default "ddccontrol"
	Device   string        // I2C device path, e.g. /dev/i2c-3
	Register string        // DDC register, 0x10 is brightness
	Timeout  time.Duration // per-invocation bound, default 5s
}

// Controller reads and writes one brightness register through the
// external tool. Both operations are synchronous and block the caller
// for up to the configured timeout.
type Controller struct {
	tool       string
	deviceSpec string
	register   string
	timeout    time.Duration
	logger     *slog.Logger
}

// New creates a controller for the given device and register.
func New(cfg Config, logger *slog.Logger) *Controller {
	if cfg.Tool == "" {
		cfg.Tool = DefaultTool
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Controller{
		tool:       cfg.Tool,
		deviceSpec: "dev:" + cfg.Device,
		register:   cfg.Register,
		timeout:    cfg.Timeout,
		logger:     logger,
	}
}

// Get reads the current brightness level. All failures collapse to
// ErrUnknown plus a logged diagnostic; nothing escapes this boundary.
func (c *Controller) Get(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.tool, "-r", c.register, c.deviceSpec)
	out, err := cmd.Output()
	if err != nil {
		// A non-zero exit with parsable stdout still counts as a read;
		// ddccontrol exits non-zero on some warnings.
		if _, isExit := err.(*exec.ExitError); !isExit {
			c.logger.Warn("brightness read failed", "error", err, "device", c.deviceSpec)
			return 0, ErrUnknown
		}
	}

	level, ok := parseLevel(string(out))
	if !ok {
		c.logger.Warn("brightness output unparsable", "device", c.deviceSpec, "register", c.register)
		return 0, ErrUnknown
	}
	return level, nil
}

// Set writes the given brightness level, clamped to [0,100]. Success iff
// the tool exits zero.
func (c *Controller) Set(ctx context.Context, value int) error {
	value = Clamp(value, 0, 100)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.tool, "-r", c.register, "-w", fmt.Sprintf("%d", value), c.deviceSpec)
	if err := cmd.Run(); err != nil {
		c.logger.Warn("brightness write failed", "error", err, "value", value, "device", c.deviceSpec)
		return fmt.Errorf("set brightness to %d: %w", value, err)
	}

	c.logger.Debug("brightness written", "value", value, "device", c.deviceSpec)
	return nil
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
