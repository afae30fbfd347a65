package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Event names pushed to connected viewers.
const (
	EventHello         = "hello"
	EventStatusUpdated = "statusUpdated"
	EventAgentStatus   = "agentStatusUpdated"
	EventTasksUpdated  = "tasksUpdated"
	EventDocsUpdated   = "docsUpdated"
	EventModelsUpdated = "modelsUpdated"
)

// Event is one frame delivered to every subscriber.
type Event struct {
	Event string         `json:"event"`
	Data  map[string]any `json:"data"`
	TS    time.Time      `json:"ts"`
}

// Bus fans events out to all current subscribers. Delivery is
// fire-and-forget: a slow subscriber drops, it never blocks the publisher.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]chan Event
}

func NewBus() *Bus {
	return &Bus{subs: map[string]chan Event{}}
}

// Broadcast stamps the event with server time and enqueues delivery to
// every current subscriber in publish order.
func (b *Bus) Broadcast(name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	evt := Event{Event: name, Data: data, TS: time.Now().UTC()}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- evt:
		default:
			// Drop if subscriber is slow.
		}
	}
}

// Subscribe registers a viewer. The channel is deregistered and closed
// when ctx is done.
func (b *Bus) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, 64)
	id := ulid.Make().String()

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
