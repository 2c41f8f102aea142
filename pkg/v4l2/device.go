//go:build linux

package v4l2

import (
	"errors"
	"fmt"
	"strconv"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// devicePrefix is the canonical device node prefix. Index 0 is the first
// device the kernel enumerated.
const devicePrefix = "/dev/video"

// OpenFlag selects the blocking mode of an opened device node. Read-write
// access is always requested; the flag only adds O_NONBLOCK.
type OpenFlag int

// Blocking modes.
const (
	Nonblocking OpenFlag = iota
	Blocking
)

// Device is a capture device abstraction over one V4L2 device node.
//
// A Device shares its Handle with any facade obtained through Handle();
// the descriptor stays open until the last holder releases its reference.
// Operations do no internal locking: concurrent calls against one Device
// get only whatever atomicity the kernel provides natively and must be
// serialized by the caller if ordering matters.
type Device struct {
	handle *Handle
}

// Open opens the capture device with the given enumeration index
// (0: first, 1: second, ...).
func Open(index int) (*Device, error) {
	return OpenPath(devicePrefix + strconv.Itoa(index))
}

// OpenPath opens the capture device at an explicit path such as
// /dev/video0.
func OpenPath(path string) (*Device, error) {
	return openDevice(path, syscall.O_RDWR)
}

// OpenPathFlags opens the device at path with the given blocking mode.
func OpenPathFlags(path string, flag OpenFlag) (*Device, error) {
	flags := syscall.O_RDWR
	if flag == Nonblocking {
		flags |= syscall.O_NONBLOCK
	}
	return openDevice(path, flags)
}

func openDevice(path string, flags int) (*Device, error) {
	fd, err := sysOpen(path, flags)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if fd < 0 {
		// Some open primitives report failure only through the sentinel.
		return nil, fmt.Errorf("open %s: driver returned invalid descriptor %d", path, fd)
	}
	return &Device{handle: newHandle(fd)}, nil
}

// Handle returns the shared raw handle, adding a reference for the caller.
// The caller must Release it when done; the descriptor stays open until
// every holder has released.
func (d *Device) Handle() *Handle {
	return d.handle.acquire()
}

// Close releases the Device's reference on the underlying handle. It must
// be called exactly once per Device.
func (d *Device) Close() {
	d.handle.Release()
}

// QueryCaps returns the driver-reported device identity and feature flags.
// The result is a snapshot taken at call time.
func (d *Device) QueryCaps() (Capabilities, error) {
	var raw v4l2Capability
	if err := sysIoctl(d.handle.Fd(), vidiocQuerycap, unsafe.Pointer(&raw)); err != nil {
		return Capabilities{}, fmt.Errorf("query capabilities: %w", err)
	}
	return newCapabilities(&raw), nil
}

// QueryControls enumerates every control the driver reports, such as gain,
// focus or white balance, including the resolved menu items of menu-type
// controls.
//
// The driver maintains the enumeration cursor: every request carries the
// "next control" and "next compound control" flag bits so the kernel
// advances to the following supported control. Drivers signal the end of
// the list with EINVAL rather than an explicit marker, so EINVAL after at
// least one control is a clean stop; EINVAL before any control, or any
// other error at any point, is a real failure and propagates.
func (d *Device) QueryControls() ([]ControlInfo, error) {
	var controls []ControlInfo
	var raw v4l2Queryctrl

	for {
		raw.id |= ctrlFlagNextCtrl | ctrlFlagNextCompound
		if err := sysIoctl(d.handle.Fd(), vidiocQueryctrl, unsafe.Pointer(&raw)); err != nil {
			if len(controls) == 0 || !errors.Is(err, syscall.EINVAL) {
				return nil, fmt.Errorf("query control: %w", err)
			}
			break
		}

		info := ControlInfo{
			ID:      raw.id,
			Name:    cstr(raw.name[:]),
			Type:    ControlType(raw.typ),
			Min:     raw.minimum,
			Max:     raw.maximum,
			Step:    raw.step,
			Default: raw.defaultValue,
			Flags:   raw.flags,
		}

		if info.Type.isMenu() {
			info.Items = d.queryMenu(&raw)
		}

		controls = append(controls, info)
	}

	return controls, nil
}

// queryMenu resolves the items of one menu control. Drivers may advertise
// a wider min/max/step range than they actually populate and answer EINVAL
// for the holes (seen on Logitech C920 class hardware), so failing indices
// are skipped silently and enumeration continues.
func (d *Device) queryMenu(ctrl *v4l2Queryctrl) []MenuItem {
	step := int64(ctrl.step)
	if step <= 0 {
		step = 1 // a zero step would never terminate
	}

	items := []MenuItem{}
	menu := v4l2Querymenu{id: ctrl.id}
	for i := int64(ctrl.minimum); i <= int64(ctrl.maximum); i += step {
		menu.index = uint32(i)
		if err := sysIoctl(d.handle.Fd(), vidiocQuerymenu, unsafe.Pointer(&menu)); err != nil {
			continue
		}
		items = append(items, decodeMenuItem(ControlType(ctrl.typ), &menu))
	}
	return items
}

// GetControl reads the current value of the control with the given id.
// Which ids are valid is decided entirely by the driver; no local
// validation is attempted.
func (d *Device) GetControl(id uint32) (ControlValue, error) {
	ctrl := v4l2Control{id: id}
	if err := sysIoctl(d.handle.Fd(), vidiocGCtrl, unsafe.Pointer(&ctrl)); err != nil {
		return ControlValue{}, fmt.Errorf("get control %#x: %w", id, err)
	}
	return IntValue(ctrl.value), nil
}

// SetControl writes a new control value. Only the ValueInt variant is
// writable; any other variant is rejected with ErrValueKind before a
// request is issued, so an unsupported payload can never reach the driver
// as zeroed garbage.
func (d *Device) SetControl(id uint32, value ControlValue) error {
	if value.Kind != ValueInt {
		return fmt.Errorf("set control %#x: %s value: %w", id, value.Kind, ErrValueKind)
	}
	ctrl := v4l2Control{id: id, value: value.Int}
	if err := sysIoctl(d.handle.Fd(), vidiocSCtrl, unsafe.Pointer(&ctrl)); err != nil {
		return fmt.Errorf("set control %#x: %w", id, err)
	}
	return nil
}

// Wait blocks the calling goroutine until the device reports readable
// data, the timeout elapses, or the poll fails. A negative timeout waits
// indefinitely.
//
// Failures are classified exactly three ways: ErrTimeout when the window
// elapses with no events, *PollError when poll(2) itself fails, and
// *DeviceError carrying the raw revents bitmask when events were reported
// but POLLIN is not among them. Nothing is retried.
func (d *Device) Wait(timeout time.Duration) error {
	fds := []unix.PollFd{{
		Fd:     int32(d.handle.Fd()),
		Events: unix.POLLIN | unix.POLLPRI,
	}}

	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
	}

	n, err := sysPoll(fds, ms)
	switch {
	case err != nil:
		var errno syscall.Errno
		errors.As(err, &errno)
		return &PollError{Errno: errno}
	case n == 0:
		return ErrTimeout
	case fds[0].Revents&unix.POLLIN != 0:
		return nil
	default:
		return &DeviceError{Revents: fds[0].Revents}
	}
}

// Read transfers bytes straight from the descriptor. The returned count is
// the raw transfer result; no partial-read looping or buffering is added
// at this layer.
func (d *Device) Read(p []byte) (int, error) {
	n, err := sysRead(d.handle.Fd(), p)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}
	return n, nil
}

// Write transfers bytes straight to the descriptor. Each call is one
// complete transfer attempt.
func (d *Device) Write(p []byte) (int, error) {
	n, err := sysWrite(d.handle.Fd(), p)
	if err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	return n, nil
}

// Flush is a no-op: writes are unbuffered, so every Write has already been
// handed to the kernel.
func (d *Device) Flush() error {
	return nil
}
