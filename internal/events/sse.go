package events

import "github.com/kelindar/event"

// SubscribeToChannel bridges callback-based subscriptions to a channel,
// for consumers that drive a select loop (the SSE endpoints). Events are
// dropped when the channel is full so a slow client never blocks
// publishers.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
