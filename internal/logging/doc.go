// Package logging provides structured logging with per-module log level configuration.
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to systemd journal when available (Linux systems with journald)
//   - Logs to stderr when a terminal, pipe, or file is connected
//   - Logs to both when both are available
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",      // Global log level: debug, info, warn, error
//		Format: "text",      // Output format: text or json
//		Modules: map[string]string{
//			"ddc":  "debug",  // Per-module overrides
//			"tray": "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("ddc")
//	logger.Info("brightness read", "level", 70)
//
// Diagnostics go to stderr rather than stdout because the --get CLI path
// reserves stdout for the brightness value.
package logging
