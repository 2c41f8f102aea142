//go:build linux

package v4l2

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrTimeout is returned by Wait when the poll window elapses before the
// device reports readable data.
var ErrTimeout = errors.New("v4l2: wait timed out before data was ready")

// ErrValueKind rejects control writes whose value variant is not the
// scalar ValueInt kind. The rejection happens before any request reaches
// the driver, so it always means caller misuse rather than a device error.
var ErrValueKind = errors.New("v4l2: only single-value integer controls can be written")

// PollError reports a failed poll(2) call, carrying the platform error
// code.
type PollError struct {
	Errno syscall.Errno
}

func (e *PollError) Error() string {
	return fmt.Sprintf("v4l2: poll failed: %v", e.Errno)
}

func (e *PollError) Unwrap() error {
	return e.Errno
}

// DeviceError reports that poll returned events but none of them was
// POLLIN. Revents carries the raw event bitmask (error, hangup, invalid
// descriptor and similar conditions) for callers that want to interpret it
// further; this package does not decode it.
type DeviceError struct {
	Revents int16
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("v4l2: device signaled error events: %#x", uint16(e.Revents))
}
