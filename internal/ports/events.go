package ports

import (
	"context"
	"time"

	"github.com/tripspark/logsvc/internal/domain"
)

// EventType identifies the kind of event carried on the bus
type EventType string

const (
	EventEntryStored EventType = "entry.stored"
)

// TopicEntries is the topic carrying persisted-entry events
const TopicEntries = "entries"

// Event is published on the bus after an entry has been persisted
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Timestamp time.Time     `json:"timestamp"`
	Entry     *domain.Entry `json:"entry"`
}

// EventHandler processes a single event
type EventHandler func(ctx context.Context, event Event) error

// EventBus fans out entry events to subscribers
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Close() error
}
