//go:build linux

package v4l2

import (
	"sync"
	"sync/atomic"
	"syscall"
	"testing"
)

func TestHandleReleaseClosesOnce(t *testing.T) {
	var closeCalls atomic.Int32
	stubClose(t, func(fd int) error {
		closeCalls.Add(1)
		return nil
	})
	stubOpen(t, func(string, int) (int, error) { return 9, nil })

	dev, err := OpenPath("/dev/video0")
	if err != nil {
		t.Fatalf("OpenPath returned error: %v", err)
	}

	dev.Close()

	if got := closeCalls.Load(); got != 1 {
		t.Errorf("close called %d times, want 1", got)
	}
	if dev.handle.Fd() != -1 {
		t.Errorf("Fd() = %d after release, want -1 sentinel", dev.handle.Fd())
	}
}

func TestHandleSharedOwnership(t *testing.T) {
	var closeCalls atomic.Int32
	stubClose(t, func(fd int) error {
		closeCalls.Add(1)
		return nil
	})

	dev := testDevice(9)
	shared := dev.Handle()

	dev.Close()
	if closeCalls.Load() != 0 {
		t.Fatal("descriptor closed while a shared holder remains")
	}
	if shared.Fd() != 9 {
		t.Errorf("Fd() = %d with holder alive, want 9", shared.Fd())
	}

	shared.Release()
	if got := closeCalls.Load(); got != 1 {
		t.Errorf("close called %d times after last release, want 1", got)
	}
}

func TestHandleConcurrentRelease(t *testing.T) {
	const owners = 16

	var closeCalls atomic.Int32
	stubClose(t, func(fd int) error {
		closeCalls.Add(1)
		return nil
	})

	dev := testDevice(9)
	handles := make([]*Handle, owners-1)
	for i := range handles {
		handles[i] = dev.Handle()
	}

	var wg sync.WaitGroup
	wg.Add(owners)
	go func() {
		defer wg.Done()
		dev.Close()
	}()
	for _, h := range handles {
		go func(h *Handle) {
			defer wg.Done()
			h.Release()
		}(h)
	}
	wg.Wait()

	if got := closeCalls.Load(); got != 1 {
		t.Errorf("close called %d times across %d concurrent releases, want exactly 1", got, owners)
	}
	if dev.handle.Fd() != -1 {
		t.Errorf("Fd() = %d after all releases, want -1", dev.handle.Fd())
	}
}

func TestHandleCloseFailureDoesNotPanic(t *testing.T) {
	stubClose(t, func(fd int) error {
		return syscall.EIO
	})

	dev := testDevice(9)
	// The failure is logged; the handle must still end up inert.
	dev.Close()

	if dev.handle.Fd() != -1 {
		t.Errorf("Fd() = %d after failing close, want -1", dev.handle.Fd())
	}
}
