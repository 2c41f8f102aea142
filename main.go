package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/camctl/camctl/cmd"
	"github.com/camctl/camctl/internal/api"
	"github.com/camctl/camctl/internal/config"
	"github.com/camctl/camctl/internal/devices"
	"github.com/camctl/camctl/internal/events"
	"github.com/camctl/camctl/internal/hotplug"
	"github.com/camctl/camctl/internal/logging"
	"github.com/camctl/camctl/internal/metrics"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`

	// Hotplug settings
	HotplugDebounceMs int `help:"Device event debounce in milliseconds" default:"1000" toml:"hotplug.debounce_ms" env:"HOTPLUG_DEBOUNCE_MS"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingJournal bool   `help:"Log to the systemd journal" default:"true" toml:"logging.journal" env:"LOGGING_JOURNAL"`
	LoggingV4L2    string `help:"Device layer logging level" default:"info" toml:"logging.v4l2" env:"LOGGING_V4L2"`
	LoggingHotplug string `help:"Hotplug logging level" default:"info" toml:"logging.hotplug" env:"LOGGING_HOTPLUG"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingHTTP    string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:   opts.LoggingLevel,
			Format:  opts.LoggingFormat,
			Journal: opts.LoggingJournal,
			Modules: map[string]string{
				"v4l2":    opts.LoggingV4L2,
				"hotplug": opts.LoggingHotplug,
				"api":     opts.LoggingAPI,
				"http":    opts.LoggingHTTP,
			},
		})

		logger := logging.GetLogger("main")

		// Event bus connects hotplug, the device store and the SSE streams.
		eventBus := events.New()

		// Feed every log entry to SSE subscribers.
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		store := devices.NewStore(eventBus)

		hotplugWatcher := hotplug.New(eventBus,
			hotplug.WithDebounce(time.Duration(opts.HotplugDebounceMs)*time.Millisecond))

		// Count hotplug transitions for the scrape endpoint.
		eventBus.Subscribe(func(events.DeviceAttachedEvent) {
			metrics.DeviceAttached()
			metrics.SetDevicesPresent(len(hotplugWatcher.Devices()))
		})
		eventBus.Subscribe(func(events.DeviceDetachedEvent) {
			metrics.DeviceDetached()
			metrics.SetDevicesPresent(len(hotplugWatcher.Devices()))
		})

		server := api.NewServer(&api.Options{
			AuthUsername:      opts.AuthUsername,
			AuthPassword:      opts.AuthPassword,
			Store:             store,
			EventBus:          eventBus,
			PrometheusHandler: metrics.Handler(),
		})

		// Reload logging levels when the config file changes on disk.
		configWatcher := config.NewConfigWatcher(
			opts.Config,
			func(path string) (logging.Config, error) {
				return config.LoadLoggingConfig(path), nil
			},
			logging.GetLogger("config"),
		)
		configWatcher.OnReload(func(cfg logging.Config) {
			logger.Info("Reloading logging configuration")
			logging.Initialize(cfg)
		})

		hooks.OnStart(func() {
			if err := hotplugWatcher.Start(context.Background()); err != nil {
				logger.Warn("Failed to start hotplug watcher", "error", err)
			}

			if err := configWatcher.Start(); err != nil {
				logger.Warn("Failed to watch config file", "error", err)
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if err := server.Start(opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Stop(ctx); err != nil {
				logger.Error("Error stopping HTTP server", "error", err)
			}

			if err := configWatcher.Stop(); err != nil {
				logger.Error("Error stopping config watcher", "error", err)
			}
			if err := hotplugWatcher.Stop(); err != nil {
				logger.Error("Error stopping hotplug watcher", "error", err)
			}
		})
	})

	cli.Root().Use = "camctl"
	cli.Root().Short = "V4L2 capture device discovery and control"

	cli.Root().AddCommand(
		cmd.CreateListCmd(),
		cmd.CreateInfoCmd(),
		cmd.CreateControlsCmd(),
		cmd.CreateGetCmd(),
		cmd.CreateSetCmd(),
		cmd.CreateWaitCmd(),
		cmd.CreateReadCmd(),
		cmd.CreateUpdateCmd(),
	)

	cli.Run()
}
