//go:build linux

package v4l2

import (
	"log/slog"
	"sync/atomic"
)

// Handle owns the raw file descriptor of one open device node.
//
// Handles are created by the Open functions and shared by reference
// counting: every facade operating on the device holds one reference, and
// the descriptor is closed exactly once when the last reference is
// released, no matter how many owners release concurrently. A released
// handle keeps the -1 sentinel so stray operations on it fail with EBADF
// instead of hitting a recycled descriptor.
type Handle struct {
	fd   atomic.Int64
	refs atomic.Int32
}

func newHandle(fd int) *Handle {
	h := &Handle{}
	h.fd.Store(int64(fd))
	h.refs.Store(1)
	return h
}

// Fd returns the raw file descriptor, or -1 once the handle is released.
func (h *Handle) Fd() int {
	return int(h.fd.Load())
}

// acquire adds a reference for a new shared owner.
func (h *Handle) acquire() *Handle {
	h.refs.Add(1)
	return h
}

// Release drops one reference. On the transition to zero the descriptor is
// closed; the sentinel swap guarantees at most one close even under
// concurrent release. A close failure cannot be returned to any owner, so
// it is logged at error level and the handle is left inert either way.
func (h *Handle) Release() {
	if h.refs.Add(-1) != 0 {
		return
	}
	fd := h.fd.Swap(-1)
	if fd < 0 {
		return
	}
	if err := sysClose(int(fd)); err != nil {
		slog.With("component", "v4l2").Error("failed to close device descriptor", "fd", fd, "error", err)
	}
}
