package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestBroadcastReachesSubscriber(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := bus.Subscribe(ctx)
	bus.Broadcast(EventTasksUpdated, map[string]any{"id": int64(1)})

	select {
	case evt := <-sub:
		if evt.Event != EventTasksUpdated {
			t.Fatalf("unexpected event %q", evt.Event)
		}
		if evt.TS.IsZero() {
			t.Fatalf("expected timestamp stamped")
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for event")
	}
}

func TestBroadcastPreservesOrder(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := bus.Subscribe(ctx)
	names := []string{EventStatusUpdated, EventTasksUpdated, EventDocsUpdated}
	for _, name := range names {
		bus.Broadcast(name, nil)
	}
	for i, want := range names {
		select {
		case evt := <-sub:
			if evt.Event != want {
				t.Fatalf("event %d: got %q want %q", i, evt.Event, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout at event %d", i)
		}
	}
}

func TestSubscribeUnregistersOnCancel(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())

	sub := bus.Subscribe(ctx)
	if bus.SubscriberCount() != 1 {
		t.Fatalf("expected 1 subscriber, got %d", bus.SubscriberCount())
	}

	cancel()
	deadline := time.After(time.Second)
	for bus.SubscriberCount() != 0 {
		select {
		case <-deadline:
			t.Fatalf("subscriber not removed after cancel")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// The channel is closed so a receive completes immediately.
	select {
	case _, ok := <-sub:
		if ok {
			// A buffered event may drain first; closed state follows.
			return
		}
	case <-time.After(time.Second):
		t.Fatalf("channel not closed")
	}
}

func TestSlowSubscriberDoesNotBlockBroadcast(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = bus.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		// Never reading from the subscription must not deadlock the bus.
		for i := 0; i < 200; i++ {
			bus.Broadcast(EventTasksUpdated, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("broadcast blocked on a slow subscriber")
	}
}
