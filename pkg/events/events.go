// Package events defines order lifecycle event publishing.
package events

import (
	"context"
	"time"
)

// Type names an order lifecycle transition.
type Type string

const (
	TypeCommitted Type = "committed"
	TypeCancelled Type = "cancelled"
	TypeServed    Type = "served"
)

// Event is a single order lifecycle event.
type Event struct {
	Type        Type      `json:"type"`
	OrderID     int       `json:"order_id"`
	Customer    string    `json:"customer"`
	PrepMinutes int       `json:"prep_minutes"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Publisher publishes order lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop discards events. Used when no broker is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, Event) error { return nil }
