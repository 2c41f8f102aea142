//go:build linux

package v4l2

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Sysfs locations for device enumeration, variables so tests can point
// them at a fixture tree.
var (
	sysfsVideoClass = "/sys/class/video4linux"
	v4lByIDDir      = "/dev/v4l/by-id"
	devDir          = "/dev"
)

// DeviceInfo describes one enumerated capture device.
type DeviceInfo struct {
	DevicePath string
	DeviceName string
	DeviceID   string // stable identifier from /dev/v4l/by-id, or synthetic
	Caps       CapFlags
}

// FindDevices discovers all video capture devices on the system. Nodes
// that cannot be opened or queried are skipped, and only nodes whose
// effective capabilities include video capture are returned.
func FindDevices() ([]DeviceInfo, error) {
	entries, err := os.ReadDir(sysfsVideoClass)
	if err != nil {
		if os.IsNotExist(err) {
			return []DeviceInfo{}, nil
		}
		return nil, fmt.Errorf("failed to read video4linux directory: %w", err)
	}

	var devices []DeviceInfo

	for _, entry := range entries {
		devicePath := filepath.Join(devDir, entry.Name())

		dev, err := OpenPathFlags(devicePath, Nonblocking)
		if err != nil {
			slog.With("component", "v4l2").Debug("failed to open video device", "path", devicePath, "error", err)
			continue
		}

		caps, err := dev.QueryCaps()
		dev.Close()
		if err != nil {
			slog.With("component", "v4l2").Debug("failed to query device capabilities", "path", devicePath, "error", err)
			continue
		}

		if !caps.Effective().Has(CapVideoCapture) {
			continue
		}

		indexValue := readSysfsInt(filepath.Join(sysfsVideoClass, entry.Name(), "index"))

		stableID := findStableID(entry.Name(), indexValue)
		if stableID == "" {
			// Fallback: synthetic ID from bus_info + index
			if strings.HasPrefix(caps.BusInfo, "usb-") {
				stableID = fmt.Sprintf("%s-video-index%d", caps.BusInfo, indexValue)
			} else {
				stableID = fmt.Sprintf("platform-%s-video-index%d", caps.BusInfo, indexValue)
			}
		}

		devices = append(devices, DeviceInfo{
			DevicePath: devicePath,
			DeviceName: caps.Card,
			DeviceID:   stableID,
			Caps:       caps.Effective(),
		})
	}

	return devices, nil
}

// DevicePathByID finds the device path for a given stable device ID.
func DevicePathByID(deviceID string) (string, error) {
	devices, err := FindDevices()
	if err != nil {
		return "", fmt.Errorf("failed to find devices: %w", err)
	}

	for _, device := range devices {
		if device.DeviceID == deviceID {
			return device.DevicePath, nil
		}
	}

	return "", fmt.Errorf("device with ID %s not found", deviceID)
}

// ResolvePath maps a user-facing device reference to a device node path.
// Accepted forms: an absolute path ("/dev/video0"), a bare enumeration
// index ("0"), or a stable device ID from enumeration.
func ResolvePath(ref string) (string, error) {
	if strings.HasPrefix(ref, "/") {
		return ref, nil
	}
	if index, err := strconv.Atoi(ref); err == nil {
		return devicePrefix + strconv.Itoa(index), nil
	}
	return DevicePathByID(ref)
}

// findStableID looks for a stable ID symlink in /dev/v4l/by-id.
func findStableID(deviceName string, indexValue int) string {
	entries, err := os.ReadDir(v4lByIDDir)
	if err != nil {
		return ""
	}

	expectedSuffix := fmt.Sprintf("-video-index%d", indexValue)

	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink == 0 {
			continue
		}

		target, err := os.Readlink(filepath.Join(v4lByIDDir, entry.Name()))
		if err != nil {
			continue
		}

		if filepath.Base(target) == deviceName && strings.HasSuffix(entry.Name(), expectedSuffix) {
			return entry.Name()
		}
	}

	return ""
}

// readSysfsInt reads an integer value from a sysfs file.
func readSysfsInt(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	val, _ := strconv.Atoi(strings.TrimSpace(string(data)))
	return val
}
