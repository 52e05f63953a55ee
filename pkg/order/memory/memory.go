// Package memory implements an in-memory order archive.
package memory

import (
	"context"
	"sync"

	"quickbite/pkg/order"
)

// Archive provides an in-memory implementation of order.Archive.
type Archive struct {
	mu   sync.RWMutex
	recs []order.Record
}

// New creates a new in-memory archive.
func New() *Archive {
	return &Archive{recs: make([]order.Record, 0, 16)}
}

// Create appends the record.
func (a *Archive) Create(ctx context.Context, rec order.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recs = append(a.recs, rec)
	return nil
}

// List returns records with the given status in insertion order. An empty
// status returns everything.
func (a *Archive) List(ctx context.Context, status order.Status) ([]order.Record, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]order.Record, 0, len(a.recs))
	for _, rec := range a.recs {
		if status == "" || rec.Status == status {
			out = append(out, rec)
		}
	}
	return out, nil
}
