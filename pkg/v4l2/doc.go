//go:build linux

// Package v4l2 provides pure Go access to Video4Linux2 (V4L2) capture
// devices: device open/close lifecycle, capability and control discovery,
// control reads and writes, readiness waiting, and raw byte-stream I/O on
// the device node.
//
// This package does not use cgo, enabling simple cross-compilation for
// different Linux architectures (amd64, arm64, arm).
//
// # Devices and Handles
//
// A Device is opened by enumeration index, path, or path plus blocking
// mode:
//
//	dev, err := v4l2.Open(0)                                  // /dev/video0
//	dev, err := v4l2.OpenPath("/dev/video1")
//	dev, err := v4l2.OpenPathFlags("/dev/video1", v4l2.Nonblocking)
//
// The underlying descriptor is owned by a reference-counted Handle.
// Cooperating facades (a streaming layer, for example) call
// dev.Handle() to share it; the descriptor is closed exactly once when the
// last holder releases.
//
// # Discovery and Controls
//
//	caps, _ := dev.QueryCaps()
//	controls, _ := dev.QueryControls()
//	val, _ := dev.GetControl(id)
//	err = dev.SetControl(id, v4l2.IntValue(128))
//
// # Readiness
//
// Wait blocks until the device reports readable data:
//
//	if err := dev.Wait(5 * time.Second); err != nil {
//	    // v4l2.ErrTimeout, *v4l2.PollError or *v4l2.DeviceError
//	}
//
// Format negotiation, buffer memory mapping and streaming I/O queues are
// out of scope for this package and belong to layers built on top of the
// shared Handle.
package v4l2
