package events

import (
	"testing"
	"time"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan DeviceAttachedEvent, 1)

	unsub := bus.Subscribe(func(e DeviceAttachedEvent) {
		received <- e
	})
	defer unsub()

	ev := DeviceAttachedEvent{
		DevicePath: "/dev/video0",
		DeviceID:   "usb-Logitech_C920-video-index0",
		DeviceName: "HD Pro Webcam C920",
		Timestamp:  "2025-01-27T10:30:00Z",
	}
	bus.Publish(ev)

	select {
	case got := <-received:
		if got.DevicePath != ev.DevicePath {
			t.Errorf("DevicePath = %q, want %q", got.DevicePath, ev.DevicePath)
		}
		if got.DeviceID != ev.DeviceID {
			t.Errorf("DeviceID = %q, want %q", got.DeviceID, ev.DeviceID)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := New()
	received1 := make(chan ControlChangedEvent, 1)
	received2 := make(chan ControlChangedEvent, 1)

	unsub1 := bus.Subscribe(func(e ControlChangedEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e ControlChangedEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(ControlChangedEvent{DevicePath: "/dev/video0", ControlID: 0x00980900, Value: 128})

	for i, ch := range []chan ControlChangedEvent{received1, received2} {
		select {
		case got := <-ch:
			if got.Value != 128 {
				t.Errorf("subscriber %d: Value = %d, want 128", i, got.Value)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := New()
	received := make(chan DeviceDetachedEvent, 1)

	unsub := bus.Subscribe(func(e DeviceDetachedEvent) {
		received <- e
	})
	unsub()

	bus.Publish(DeviceDetachedEvent{DevicePath: "/dev/video0"})

	select {
	case <-received:
		t.Error("unsubscribed handler received event")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusTypeIsolation(t *testing.T) {
	bus := New()
	attached := make(chan DeviceAttachedEvent, 1)

	unsub := bus.Subscribe(func(e DeviceAttachedEvent) {
		attached <- e
	})
	defer unsub()

	// A detach event must not reach the attach subscriber.
	bus.Publish(DeviceDetachedEvent{DevicePath: "/dev/video1"})

	select {
	case <-attached:
		t.Error("attach subscriber received detach event")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusUnknownHandler(t *testing.T) {
	bus := New()

	// An unsupported handler signature returns a usable no-op unsubscribe.
	unsub := bus.Subscribe(func(int) {})
	unsub()
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 2)

	unsub := SubscribeToChannel[LogEntryEvent](bus, ch)
	defer unsub()

	bus.Publish(LogEntryEvent{Level: "info", Module: "v4l2", Message: "device opened"})

	select {
	case raw := <-ch:
		ev, ok := raw.(LogEntryEvent)
		if !ok {
			t.Fatalf("got %T, want LogEntryEvent", raw)
		}
		if ev.Level != "info" || ev.Message != "device opened" {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel event")
	}
}

func TestSubscribeToChannelNonBlocking(t *testing.T) {
	bus := New()
	ch := make(chan any) // no buffer, no reader

	unsub := SubscribeToChannel[DeviceAttachedEvent](bus, ch)
	defer unsub()

	done := make(chan struct{})
	go func() {
		bus.Publish(DeviceAttachedEvent{DevicePath: "/dev/video0"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on full subscriber channel")
	}
}
