//go:build linux

package v4l2

import (
	"bytes"
	"fmt"
	"strings"
)

// CapFlags is the capability bitmask reported by VIDIOC_QUERYCAP.
type CapFlags uint32

// Capability flags from linux/videodev2.h.
const (
	CapVideoCapture       CapFlags = 0x00000001
	CapVideoOutput        CapFlags = 0x00000002
	CapVideoOverlay       CapFlags = 0x00000004
	CapVBICapture         CapFlags = 0x00000010
	CapVBIOutput          CapFlags = 0x00000020
	CapVideoCaptureMplane CapFlags = 0x00001000
	CapVideoOutputMplane  CapFlags = 0x00002000
	CapVideoM2M           CapFlags = 0x00008000
	CapTuner              CapFlags = 0x00010000
	CapAudio              CapFlags = 0x00020000
	CapRadio              CapFlags = 0x00040000
	CapMetaCapture        CapFlags = 0x00800000
	CapReadWrite          CapFlags = 0x01000000
	CapStreaming          CapFlags = 0x04000000
	CapDeviceCaps         CapFlags = 0x80000000
)

var capFlagNames = []struct {
	flag CapFlags
	name string
}{
	{CapVideoCapture, "video_capture"},
	{CapVideoOutput, "video_output"},
	{CapVideoOverlay, "video_overlay"},
	{CapVBICapture, "vbi_capture"},
	{CapVBIOutput, "vbi_output"},
	{CapVideoCaptureMplane, "video_capture_mplane"},
	{CapVideoOutputMplane, "video_output_mplane"},
	{CapVideoM2M, "video_m2m"},
	{CapTuner, "tuner"},
	{CapAudio, "audio"},
	{CapRadio, "radio"},
	{CapMetaCapture, "meta_capture"},
	{CapReadWrite, "readwrite"},
	{CapStreaming, "streaming"},
	{CapDeviceCaps, "device_caps"},
}

// Has reports whether all bits of flag are set.
func (f CapFlags) Has(flag CapFlags) bool {
	return f&flag == flag
}

// String lists the set capability flags separated by "|".
func (f CapFlags) String() string {
	var names []string
	for _, c := range capFlagNames {
		if f&c.flag != 0 {
			names = append(names, c.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Version is the kernel-reported driver version.
type Version struct {
	Major uint8
	Minor uint8
	Patch uint8
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Capabilities describes the device identity and feature flags reported by
// the driver. It is a snapshot taken at query time and is not kept in sync
// with live device state.
type Capabilities struct {
	Driver       string
	Card         string
	BusInfo      string
	Version      Version
	Capabilities CapFlags
	DeviceCaps   CapFlags
}

// Effective returns the capabilities of the queried device node itself:
// DeviceCaps when the driver reports per-node caps, the global set
// otherwise.
func (c Capabilities) Effective() CapFlags {
	if c.Capabilities.Has(CapDeviceCaps) {
		return c.DeviceCaps
	}
	return c.Capabilities
}

func newCapabilities(raw *v4l2Capability) Capabilities {
	return Capabilities{
		Driver:  cstr(raw.driver[:]),
		Card:    cstr(raw.card[:]),
		BusInfo: cstr(raw.busInfo[:]),
		Version: Version{
			Major: uint8(raw.version >> 16),
			Minor: uint8(raw.version >> 8),
			Patch: uint8(raw.version),
		},
		Capabilities: CapFlags(raw.capabilities),
		DeviceCaps:   CapFlags(raw.deviceCaps),
	}
}

// cstr converts a null-terminated byte slice to a Go string.
func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
