// Package order implements the order intake core: the pending queue,
// wait-time estimation, the cancellation gate, and the coordinator that
// ties them together under one submission transaction.
package order

import (
	"context"
	"errors"
	"time"
)

// Status describes where an order is in its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusServed    Status = "served"
)

// Order is a priced customer order. Prep times are whole minutes.
type Order struct {
	ID          int      `json:"id"`
	Customer    string   `json:"customer"`
	Items       []string `json:"items"`
	PrepMinutes int      `json:"prepTime"`
	Status      Status   `json:"status"`
}

// Record is an archived order outcome. Cancelled and served orders are
// retained only as records; they are never re-enqueued.
type Record struct {
	OrderID     int       `json:"order_id"`
	Customer    string    `json:"customer"`
	PrepMinutes int       `json:"prep_minutes"`
	Status      Status    `json:"status"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// Archive stores order outcomes for audit. Implementations are append-only.
type Archive interface {
	Create(ctx context.Context, rec Record) error
	List(ctx context.Context, status Status) ([]Record, error)
}

var (
	// ErrInvalidSelection indicates an empty or unresolvable item selection.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrDuplicateID indicates an enqueue with an already-used order id. The
	// id generator makes this unreachable; seeing it means a concurrency bug.
	ErrDuplicateID = errors.New("duplicate order id")

	// ErrNotFound indicates the requested order is not in the queue.
	ErrNotFound = errors.New("order not found")
)
