//go:build linux

package v4l2

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Kernel entry points used by this package, declared as variables so tests
// can stand in a simulated driver without touching real device nodes. The
// defaults go straight to the kernel.
var (
	sysOpen = func(path string, flags int) (int, error) {
		return syscall.Open(path, flags, 0)
	}
	sysClose = syscall.Close
	sysIoctl = ioctl
	sysPoll  = unix.Poll
	sysRead  = syscall.Read
	sysWrite = syscall.Write
)

func ioctl(fd int, req uint, arg unsafe.Pointer) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), uintptr(req), uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
