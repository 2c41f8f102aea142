//go:build linux

// Package devices mediates between the API surface and the V4L2 layer.
// A Store resolves user-facing device references, opens the device for
// the duration of one operation, and records metrics and change events.
package devices

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/camctl/camctl/internal/events"
	"github.com/camctl/camctl/internal/logging"
	"github.com/camctl/camctl/internal/metrics"
	"github.com/camctl/camctl/pkg/v4l2"
)

// Store provides device discovery and control access.
type Store interface {
	// List returns all capture devices currently present.
	List() ([]v4l2.DeviceInfo, error)

	// Resolve maps a device reference (path, index or stable ID) to a
	// device node path.
	Resolve(ref string) (string, error)

	// Capabilities queries driver identity and capability flags.
	Capabilities(ref string) (v4l2.Capabilities, error)

	// Controls enumerates all user controls of a device.
	Controls(ref string) ([]v4l2.ControlInfo, error)

	// GetControl reads the current value of a scalar control.
	GetControl(ref string, id uint32) (v4l2.ControlValue, error)

	// SetControl writes a scalar control value.
	SetControl(ref string, id uint32, value v4l2.ControlValue) error
}

// deviceOps is the per-device surface the store needs, satisfied by
// *v4l2.Device and swappable in tests.
type deviceOps interface {
	QueryCaps() (v4l2.Capabilities, error)
	QueryControls() ([]v4l2.ControlInfo, error)
	GetControl(id uint32) (v4l2.ControlValue, error)
	SetControl(id uint32, value v4l2.ControlValue) error
	Close()
}

// Seams for tests.
var (
	openDevice = func(path string) (deviceOps, error) {
		return v4l2.OpenPathFlags(path, v4l2.Nonblocking)
	}
	findDevices = v4l2.FindDevices
	resolvePath = v4l2.ResolvePath
)

// v4l2Store is the production Store backed by pkg/v4l2.
type v4l2Store struct {
	bus    *events.Bus
	logger *slog.Logger
}

// NewStore creates a Store. The bus may be nil when no event
// broadcasting is wanted (one-shot CLI commands).
func NewStore(bus *events.Bus) Store {
	return &v4l2Store{
		bus:    bus,
		logger: logging.GetLogger("devices"),
	}
}

func (s *v4l2Store) List() ([]v4l2.DeviceInfo, error) {
	devices, err := findDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}
	metrics.SetDevicesPresent(len(devices))
	return devices, nil
}

func (s *v4l2Store) Resolve(ref string) (string, error) {
	return resolvePath(ref)
}

func (s *v4l2Store) Capabilities(ref string) (v4l2.Capabilities, error) {
	var caps v4l2.Capabilities
	err := s.withDevice(ref, func(dev deviceOps) error {
		var err error
		caps, err = dev.QueryCaps()
		return err
	})
	return caps, err
}

func (s *v4l2Store) Controls(ref string) ([]v4l2.ControlInfo, error) {
	var controls []v4l2.ControlInfo
	err := s.withDevice(ref, func(dev deviceOps) error {
		var err error
		controls, err = dev.QueryControls()
		return err
	})
	return controls, err
}

func (s *v4l2Store) GetControl(ref string, id uint32) (v4l2.ControlValue, error) {
	var value v4l2.ControlValue
	err := s.withDevice(ref, func(dev deviceOps) error {
		var err error
		value, err = dev.GetControl(id)
		metrics.ControlRead(err)
		return err
	})
	return value, err
}

func (s *v4l2Store) SetControl(ref string, id uint32, value v4l2.ControlValue) error {
	path, err := s.Resolve(ref)
	if err != nil {
		return err
	}

	dev, err := openDevice(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	err = dev.SetControl(id, value)
	metrics.ControlWrite(err)
	if err != nil {
		return err
	}

	s.logger.Info("control set", "path", path, "id", id, "value", value.String())

	if s.bus != nil {
		s.bus.Publish(events.ControlChangedEvent{
			DevicePath: path,
			ControlID:  id,
			Value:      value.Int,
			Timestamp:  time.Now().Format(time.RFC3339),
		})
	}
	return nil
}

// withDevice resolves ref, opens the device and runs fn, closing the
// device afterwards.
func (s *v4l2Store) withDevice(ref string, fn func(deviceOps) error) error {
	path, err := s.Resolve(ref)
	if err != nil {
		return err
	}

	dev, err := openDevice(path)
	if err != nil {
		return err
	}
	defer dev.Close()

	return fn(dev)
}
