// Package cmd holds the CLI entrypoints.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gotk3/gotk3/glib"
	"github.com/gotk3/gotk3/gtk"
	"github.com/spf13/cobra"

	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/brightness"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/config"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/ddc"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/events"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/logging"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/tray"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/ui"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/updater"
	"github.com/krsnv/xfce4-ddc-brightness-slider/internal/version"
)

const updateSlug = "krsnv/xfce4-ddc-brightness-slider"

// CreateRootCmd creates the root command. With no mode flag it runs the
// tray applet; --get and --set run headless and exit.
func CreateRootCmd() *cobra.Command {
	opts := config.NewOptions()
	opts.Config = config.DefaultPath()

	var getLevel bool
	var setLevel int
	var windowMode bool
	var checkUpdate bool

	cmd := &cobra.Command{
		Use:           "ddc-brightness-slider",
		Short:         "Tray slider for DDC/CI monitor brightness",
		Long:          `Controls external monitor brightness over DDC/CI by driving the ddccontrol tool. Runs as a tray icon with a popup slider, or headless via --get and --set.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(opts, cmd); err != nil {
				return err
			}

			logCfg := config.LoadLogging(opts.Config)
			if cmd.Flags().Changed("logging-level") || opts.LoggingLevel != "info" {
				logCfg.Level = opts.LoggingLevel
			}
			if cmd.Flags().Changed("logging-format") || opts.LoggingFormat != "text" {
				logCfg.Format = opts.LoggingFormat
			}
			logging.Initialize(logCfg)

			ctrl := ddc.New(ddc.Config{
				Tool:     opts.Tool,
				Device:   opts.Device,
				Register: opts.Register,
			}, logging.GetLogger("ddc"))

			switch {
			case getLevel:
				return runGet(ctrl, cmd.OutOrStdout())
			case cmd.Flags().Changed("set"):
				return runSet(ctrl, setLevel)
			case checkUpdate:
				return runCheckUpdate()
			default:
				return runApplet(opts, ctrl, windowMode)
			}
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Config, "config", "c", opts.Config, "Path to configuration file")
	f.StringVar(&opts.Tool, "tool", opts.Tool, "DDC/CI tool binary")
	f.StringVarP(&opts.Device, "device", "d", opts.Device, "I2C device passed to the tool (dev:<device>)")
	f.StringVarP(&opts.Register, "register", "r", opts.Register, "VCP register holding brightness")
	f.IntVar(&opts.Min, "min", opts.Min, "Lowest brightness the slider reaches")
	f.IntVar(&opts.Max, "max", opts.Max, "Highest brightness the slider reaches")
	f.IntVar(&opts.Step, "step", opts.Step, "Slider keyboard increment")
	f.IntVar(&opts.ScrollStep, "scroll-step", opts.ScrollStep, "Brightness change per scroll tick")
	f.StringVar(&opts.LoggingLevel, "logging-level", opts.LoggingLevel, "Logging level (debug, info, warn, error)")
	f.StringVar(&opts.LoggingFormat, "logging-format", opts.LoggingFormat, "Logging format (text, json)")

	f.BoolVar(&getLevel, "get", false, "Print the current brightness to stdout and exit")
	f.IntVar(&setLevel, "set", 0, "Set brightness to the given level and exit")
	f.BoolVar(&windowMode, "standalone", false, "Run as a regular window instead of a tray icon")
	f.BoolVar(&checkUpdate, "check-update", false, "Check for a newer release and exit")

	return cmd
}

// runGet prints the brightness level as a bare number. On failure
// nothing reaches out; the error propagates to Execute, which exits 1.
func runGet(ctrl *ddc.Controller, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), ddc.DefaultTimeout)
	defer cancel()

	level, err := ctrl.Get(ctx)
	if err != nil {
		return fmt.Errorf("read brightness: %w", err)
	}
	fmt.Fprintln(out, level)
	return nil
}

func runSet(ctrl *ddc.Controller, level int) error {
	ctx, cancel := context.WithTimeout(context.Background(), ddc.DefaultTimeout)
	defer cancel()

	if err := ctrl.Set(ctx, level); err != nil {
		return fmt.Errorf("set brightness to %d: %w", level, err)
	}
	return nil
}

func runCheckUpdate() error {
	logger := logging.GetLogger("updater")
	upd, err := updater.New(updateSlug, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := upd.Check(ctx)
	if err != nil {
		return err
	}
	if info.Available {
		fmt.Printf("Update available: %s (current %s)\n%s\n", info.LatestVersion, info.CurrentVersion, info.ReleaseURL)
	} else {
		fmt.Printf("Up to date (%s)\n", info.CurrentVersion)
	}
	return nil
}

// runApplet starts the GTK main loop with either the tray icon or a
// standalone window. A missing tray backend is the one fatal startup
// error; everything else degrades to an unknown level.
func runApplet(opts *config.Options, ctrl *ddc.Controller, windowMode bool) error {
	logger := logging.GetLogger("app")
	logger.Info("Starting brightness slider",
		"version", version.Version, "device", opts.Device, "register", opts.Register)

	gtk.Init(nil)

	bus := events.New()
	mgr := brightness.NewManager(ctrl, bus, brightness.Config{
		Min:        opts.Min,
		Max:        opts.Max,
		ScrollStep: opts.ScrollStep,
	}, logging.GetLogger("brightness"))
	mgr.Start()
	defer mgr.Stop()

	uiCfg := ui.Config{Min: opts.Min, Max: opts.Max, Step: opts.Step}

	if windowMode {
		if _, err := ui.NewStandalone(mgr, bus, uiCfg.Min, uiCfg.Max, uiCfg.Step, logging.GetLogger("ui")); err != nil {
			return err
		}
	} else {
		backend, err := tray.New(logging.GetLogger("tray"))
		if err != nil {
			logger.Error("No tray icon backend available", "error", err)
			return err
		}
		defer backend.Close()

		upd, err := updater.New(updateSlug, logging.GetLogger("updater"))
		if err != nil {
			return err
		}

		if _, err := ui.New(backend, mgr, bus, upd, uiCfg, logging.GetLogger("ui")); err != nil {
			return err
		}
	}

	startWatcher(opts, bus, mgr, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("Shutting down", "signal", sig.String())
		glib.IdleAdd(func() { gtk.MainQuit() })
	}()

	gtk.Main()
	logger.Info("Stopped")
	return nil
}

// startWatcher reloads device and range settings when the config file
// changes. Watch errors are not fatal; the applet keeps the settings it
// started with.
func startWatcher(opts *config.Options, bus *events.Bus, mgr *brightness.Manager, logger *slog.Logger) {
	if opts.Config == "" {
		return
	}

	loader := func(path string) (*config.Options, error) {
		fresh := config.NewOptions()
		fresh.Config = path
		if err := config.Load(fresh, nil); err != nil {
			return nil, err
		}
		return fresh, nil
	}

	watcher := config.NewWatcher(opts.Config, loader, logging.GetLogger("config"))
	watcher.OnReload(func(fresh *config.Options) {
		glib.IdleAdd(func() {
			ctrl := ddc.New(ddc.Config{
				Tool:     fresh.Tool,
				Device:   fresh.Device,
				Register: fresh.Register,
			}, logging.GetLogger("ddc"))
			mgr.Reconfigure(ctrl, brightness.Config{
				Min:        fresh.Min,
				Max:        fresh.Max,
				ScrollStep: fresh.ScrollStep,
			})
			bus.Publish(events.ConfigReloadedEvent{Device: fresh.Device, Register: fresh.Register})
			logger.Info("Configuration reloaded", "device", fresh.Device, "register", fresh.Register)
		})
	})
	if err := watcher.Start(); err != nil {
		logger.Warn("Config watcher not started", "error", err)
	}
}

// Execute runs the root command. This is the only place that exits the
// process on error, so RunE paths stay testable in-process.
func Execute() {
	if err := CreateRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
