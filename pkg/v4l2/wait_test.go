//go:build linux

package v4l2

import (
	"errors"
	"syscall"
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestWaitReady(t *testing.T) {
	var gotEvents int16
	var gotFd int32
	stubPoll(t, func(fds []unix.PollFd, timeout int) (int, error) {
		if len(fds) != 1 {
			t.Fatalf("poll called with %d descriptors, want 1", len(fds))
		}
		gotFd = fds[0].Fd
		gotEvents = fds[0].Events
		fds[0].Revents = unix.POLLIN
		return 1, nil
	})

	dev := testDevice(7)
	if err := dev.Wait(time.Second); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if gotFd != 7 {
		t.Errorf("poll watched fd %d, want 7", gotFd)
	}
	if gotEvents != unix.POLLIN|unix.POLLPRI {
		t.Errorf("requested events %#x, want POLLIN|POLLPRI", gotEvents)
	}
}

func TestWaitTimeoutMapping(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		wantMs  int
	}{
		{"indefinite", -1, -1},
		{"immediate", 0, 0},
		{"two and a half seconds", 2500 * time.Millisecond, 2500},
		{"sub-millisecond rounds down", 400 * time.Microsecond, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMs int
			stubPoll(t, func(fds []unix.PollFd, timeout int) (int, error) {
				gotMs = timeout
				fds[0].Revents = unix.POLLIN
				return 1, nil
			})

			dev := testDevice(7)
			if err := dev.Wait(tt.timeout); err != nil {
				t.Fatalf("Wait returned error: %v", err)
			}
			if gotMs != tt.wantMs {
				t.Errorf("poll timeout = %d ms, want %d", gotMs, tt.wantMs)
			}
		})
	}
}

func TestWaitTimeout(t *testing.T) {
	stubPoll(t, func(fds []unix.PollFd, timeout int) (int, error) {
		return 0, nil
	})

	dev := testDevice(7)
	if err := dev.Wait(0); !errors.Is(err, ErrTimeout) {
		t.Errorf("Wait = %v, want ErrTimeout", err)
	}
}

func TestWaitPollError(t *testing.T) {
	stubPoll(t, func(fds []unix.PollFd, timeout int) (int, error) {
		return -1, syscall.EBADF
	})

	dev := testDevice(7)
	err := dev.Wait(time.Second)

	var pollErr *PollError
	if !errors.As(err, &pollErr) {
		t.Fatalf("Wait = %v, want *PollError", err)
	}
	if pollErr.Errno != syscall.EBADF {
		t.Errorf("PollError.Errno = %v, want EBADF", pollErr.Errno)
	}
	if !errors.Is(err, syscall.EBADF) {
		t.Error("PollError should unwrap to its errno")
	}
}

func TestWaitDeviceError(t *testing.T) {
	stubPoll(t, func(fds []unix.PollFd, timeout int) (int, error) {
		fds[0].Revents = unix.POLLERR
		return 1, nil
	})

	dev := testDevice(7)
	err := dev.Wait(time.Second)

	var devErr *DeviceError
	if !errors.As(err, &devErr) {
		t.Fatalf("Wait = %v, want *DeviceError", err)
	}
	if devErr.Revents != unix.POLLERR {
		t.Errorf("DeviceError.Revents = %#x, want POLLERR", devErr.Revents)
	}
}

func TestWaitPriorityOnlyIsDeviceError(t *testing.T) {
	// POLLPRI without POLLIN is reported through the raw bitmask; only
	// POLLIN counts as ready.
	stubPoll(t, func(fds []unix.PollFd, timeout int) (int, error) {
		fds[0].Revents = unix.POLLPRI
		return 1, nil
	})

	dev := testDevice(7)
	var devErr *DeviceError
	if err := dev.Wait(time.Second); !errors.As(err, &devErr) {
		t.Fatalf("Wait = %v, want *DeviceError", err)
	}
}
