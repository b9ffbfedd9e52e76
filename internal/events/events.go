// Package events publishes domain events to downstream consumers.
package events

import (
	"context"
	"time"
)

// TypeListRegenerated is emitted once for every list a recurrence creates.
const TypeListRegenerated = "list.regenerated"

// ListRegenerated records that a recurrence produced a new list.
type ListRegenerated struct {
	Type         string    `json:"type"`
	RecurrenceID string    `json:"recurrence_id"`
	AnchorListID string    `json:"anchor_list_id"`
	NewListID    string    `json:"new_list_id"`
	OwnerID      string    `json:"owner_id"`
	GroupID      *string   `json:"group_id,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Publisher delivers events. Publish must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, string, any) error { return nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }
