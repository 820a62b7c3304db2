package memory

import (
	"context"
	"sync"

	"github.com/tripspark/logsvc/internal/ports"
)

// InMemoryEventBus implements ports.EventBus with in-process fanout
type InMemoryEventBus struct {
	subscribers map[string][]subscription
	nextID      int
	mu          sync.RWMutex
}

type subscription struct {
	id      int
	handler ports.EventHandler
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		subscribers: make(map[string][]subscription),
	}
}

// Publish publishes an event to all subscribers of a topic
func (e *InMemoryEventBus) Publish(ctx context.Context, topic string, event ports.Event) error {
	e.mu.RLock()
	handlers := make([]subscription, len(e.subscribers[topic]))
	copy(handlers, e.subscribers[topic])
	e.mu.RUnlock()

	// Handlers run asynchronously; a slow subscriber must not hold up
	// the ingest workers
	for _, sub := range handlers {
		go func(s subscription) {
			_ = s.handler(ctx, event)
		}(sub)
	}

	return nil
}

// Subscribe subscribes to events on a specific topic. The subscription
// is removed when ctx is cancelled.
func (e *InMemoryEventBus) Subscribe(ctx context.Context, topic string, handler ports.EventHandler) error {
	e.mu.Lock()
	e.nextID++
	sub := subscription{id: e.nextID, handler: handler}
	e.subscribers[topic] = append(e.subscribers[topic], sub)
	e.mu.Unlock()

	go func() {
		<-ctx.Done()
		e.unsubscribe(topic, sub.id)
	}()

	return nil
}

// Close closes the event bus and drops all subscriptions
func (e *InMemoryEventBus) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subscribers = make(map[string][]subscription)
	return nil
}

// unsubscribe removes a subscription from a topic
func (e *InMemoryEventBus) unsubscribe(topic string, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	subs := e.subscribers[topic]
	for i, s := range subs {
		if s.id == id {
			e.subscribers[topic] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
}
