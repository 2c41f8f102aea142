//go:build linux

package v4l2

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Helpers to swap the syscall seams for one test. Each restores the real
// kernel entry point on cleanup.

func stubOpen(t *testing.T, fn func(path string, flags int) (int, error)) {
	t.Helper()
	orig := sysOpen
	sysOpen = fn
	t.Cleanup(func() { sysOpen = orig })
}

func stubClose(t *testing.T, fn func(fd int) error) {
	t.Helper()
	orig := sysClose
	sysClose = fn
	t.Cleanup(func() { sysClose = orig })
}

func stubIoctl(t *testing.T, fn func(fd int, req uint, arg unsafe.Pointer) error) {
	t.Helper()
	orig := sysIoctl
	sysIoctl = fn
	t.Cleanup(func() { sysIoctl = orig })
}

func stubPoll(t *testing.T, fn func(fds []unix.PollFd, timeout int) (int, error)) {
	t.Helper()
	orig := sysPoll
	sysPoll = fn
	t.Cleanup(func() { sysPoll = orig })
}

func stubRead(t *testing.T, fn func(fd int, p []byte) (int, error)) {
	t.Helper()
	orig := sysRead
	sysRead = fn
	t.Cleanup(func() { sysRead = orig })
}

func stubWrite(t *testing.T, fn func(fd int, p []byte) (int, error)) {
	t.Helper()
	orig := sysWrite
	sysWrite = fn
	t.Cleanup(func() { sysWrite = orig })
}

// testDevice builds a Device around a fake descriptor without going
// through the open path.
func testDevice(fd int) *Device {
	return &Device{handle: newHandle(fd)}
}
