// Package logging provides structured logging with per-module log level configuration.
//
// # Overview
//
// The logging system uses Go's slog package with automatic output routing:
//   - Logs to stdout when a terminal, pipe, or file is connected
//   - Logs to the systemd journal when enabled and available
//   - Logs to an in-memory ring buffer backing the /api/logs endpoint
//
// # Usage
//
// Initialize the logging system once at startup:
//
//	logging.Initialize(logging.Config{
//		Level:   "info",      // Global log level: debug, info, warn, error
//		Format:  "text",      // Output format: text or json
//		Journal: true,        // Also log to journald when available
//		Modules: map[string]string{
//			"v4l2":    "debug", // Per-module overrides
//			"hotplug": "warn",
//		},
//	})
//
// Get a logger for your module:
//
//	logger := logging.GetLogger("v4l2")
//	logger.Info("device opened", "path", path)
//	logger.Debug("control query", "id", id)
//
// Add contextual attributes:
//
//	logger := logging.GetLogger("devices").With("device", id)
//	logger.Info("controls enumerated") // Includes device in all logs
//
// # Viewing Logs
//
// When running as a systemd service with Journal enabled:
//
//	journalctl -t camctl              # All camctl logs
//	journalctl -t camctl -f           # Follow live
//	journalctl -t camctl -p err       # Errors only
//	journalctl -t camctl MODULE=v4l2  # Filter by structured field
//
// # Configuration
//
// Log levels can be set globally or per-module. Module-specific levels
// override the global level for that module only.
//
// Example TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//	journal = true
//
//	[logging.modules]
//	v4l2 = "debug"
//	api = "warn"
package logging
