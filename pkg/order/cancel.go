package order

import (
	"context"
	"fmt"
	"time"
)

// Decision is the cancellation-gate outcome for a priced order.
type Decision string

const (
	DecisionCommit  Decision = "commit"
	DecisionDiscard Decision = "discard"
)

// Quote is the priced order a decision is made against, before anything is
// committed.
type Quote struct {
	Customer            string
	Items               []string
	PrepMinutes         int
	CancelWindowMinutes int
}

// DecideFunc supplies the commit/discard decision for a priced order. The
// coordinator calls it outside the submission lock, so it may block on the
// caller (an HTTP field, a prompt) without stalling other submissions.
type DecideFunc func(Quote) Decision

// Gate persists cancellation outcomes. The window is advisory: the caller
// solicits the decision before it elapses, the gate only records the result.
type Gate struct {
	window  int
	archive Archive
}

// NewGate returns a gate with the given window in minutes.
func NewGate(windowMinutes int, archive Archive) *Gate {
	return &Gate{window: windowMinutes, archive: archive}
}

// WindowMinutes returns the advisory cancellation window.
func (g *Gate) WindowMinutes() int { return g.window }

// Discard records the cancelled order in the audit archive. The order never
// entered the queue and never will.
func (g *Gate) Discard(ctx context.Context, o Order) (Record, error) {
	rec := Record{
		OrderID:     o.ID,
		Customer:    o.Customer,
		PrepMinutes: o.PrepMinutes,
		Status:      StatusCancelled,
		RecordedAt:  time.Now().UTC(),
	}
	if err := g.archive.Create(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("recording cancellation: %w", err)
	}
	return rec, nil
}
