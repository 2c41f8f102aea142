//go:build linux

package hotplug

import (
	"context"
	"log/slog"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/camctl/camctl/internal/events"
	"github.com/camctl/camctl/internal/logging"
	"github.com/camctl/camctl/pkg/v4l2"
)

// videoNodeRe matches kernel video device node names.
var videoNodeRe = regexp.MustCompile(`^video[0-9]+$`)

// Watcher monitors /dev for video device nodes appearing and
// disappearing and publishes attach/detach events on the bus. Node
// creation and removal arrive as inotify events; after a debounce the
// watcher re-enumerates and diffs against the last known set, so a
// burst of events from one physical plug yields one resync.
type Watcher struct {
	devDir    string
	debounce  time.Duration
	bus       *events.Bus
	enumerate func() ([]v4l2.DeviceInfo, error)
	logger    *slog.Logger

	mu      sync.Mutex
	known   map[string]v4l2.DeviceInfo
	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the resync debounce. Default is 1s: the kernel
// needs a moment to finish enumerating a freshly attached USB device.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithDevDir overrides the watched directory.
func WithDevDir(dir string) Option {
	return func(w *Watcher) {
		w.devDir = dir
	}
}

// WithEnumerator overrides the device enumeration function.
func WithEnumerator(fn func() ([]v4l2.DeviceInfo, error)) Option {
	return func(w *Watcher) {
		w.enumerate = fn
	}
}

// New creates a hotplug watcher publishing to bus.
func New(bus *events.Bus, opts ...Option) *Watcher {
	w := &Watcher{
		devDir:    "/dev",
		debounce:  time.Second,
		bus:       bus,
		enumerate: v4l2.FindDevices,
		logger:    logging.GetLogger("hotplug"),
		known:     make(map[string]v4l2.DeviceInfo),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start snapshots the current device set, publishes an attach event for
// each present device, and begins watching for changes.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(w.devDir); err != nil {
		watcher.Close()
		return err
	}

	w.ctx, w.cancel = context.WithCancel(ctx)
	w.watcher = watcher

	devices, err := w.enumerate()
	if err != nil {
		w.logger.Warn("initial device enumeration failed", "error", err)
	} else {
		w.mu.Lock()
		for _, dev := range devices {
			w.known[dev.DevicePath] = dev
			w.publishAttached(dev)
		}
		w.mu.Unlock()
		w.logger.Info("hotplug watcher started", "dir", w.devDir, "devices", len(devices))
	}

	go w.watch()
	return nil
}

// Stop stops the watcher and releases the inotify handle.
func (w *Watcher) Stop() error {
	if w.cancel != nil {
		w.cancel()
	}
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// Devices returns the currently known device set.
func (w *Watcher) Devices() []v4l2.DeviceInfo {
	w.mu.Lock()
	defer w.mu.Unlock()

	devices := make([]v4l2.DeviceInfo, 0, len(w.known))
	for _, dev := range w.known {
		devices = append(devices, dev)
	}
	return devices
}

func (w *Watcher) watch() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Debug("hotplug watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !videoNodeRe.MatchString(filepath.Base(event.Name)) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}

			w.logger.Debug("device node event", "op", event.Op.String(), "node", event.Name)

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			timerC = timer.C

		case <-timerC:
			w.resync()
			timerC = nil

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("hotplug watcher error", "error", err)
		}
	}
}

// resync re-enumerates and diffs against the known set, publishing
// attach and detach events for the difference.
func (w *Watcher) resync() {
	devices, err := w.enumerate()
	if err != nil {
		w.logger.Error("device enumeration failed", "error", err)
		return
	}

	current := make(map[string]v4l2.DeviceInfo, len(devices))
	for _, dev := range devices {
		current[dev.DevicePath] = dev
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for path, old := range w.known {
		if _, exists := current[path]; !exists {
			delete(w.known, path)
			w.logger.Info("device detached", "path", path, "name", old.DeviceName, "id", old.DeviceID)
			w.bus.Publish(events.DeviceDetachedEvent{
				DevicePath: path,
				Timestamp:  time.Now().Format(time.RFC3339),
			})
		}
	}

	for path, dev := range current {
		if _, exists := w.known[path]; !exists {
			w.known[path] = dev
			w.logger.Info("device attached", "path", path, "name", dev.DeviceName, "id", dev.DeviceID)
			w.publishAttached(dev)
		}
	}
}

func (w *Watcher) publishAttached(dev v4l2.DeviceInfo) {
	w.bus.Publish(events.DeviceAttachedEvent{
		DevicePath: dev.DevicePath,
		DeviceID:   dev.DeviceID,
		DeviceName: dev.DeviceName,
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}
