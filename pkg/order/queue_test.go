package order

import (
	"errors"
	"testing"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	if err := q.Enqueue(Order{ID: 1, Customer: "alice", PrepMinutes: 30, Status: StatusPending}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := q.Enqueue(Order{ID: 2, Customer: "bob", PrepMinutes: 15, Status: StatusPending}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	if got := q.AggregatePendingMinutes(); got != 45 {
		t.Fatalf("expected aggregate 45, got %d", got)
	}

	if err := q.Enqueue(Order{ID: 1, Customer: "mallory"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}

	snap := q.Snapshot()
	if len(snap) != 2 || snap[0].ID != 1 || snap[1].ID != 2 {
		t.Fatalf("snapshot not FIFO: %+v", snap)
	}
	snap[0].PrepMinutes = 999
	if got := q.AggregatePendingMinutes(); got != 45 {
		t.Fatalf("snapshot mutation leaked into queue, aggregate %d", got)
	}

	o, ok := q.RemoveIfPresent(1)
	if !ok || o.Customer != "alice" {
		t.Fatalf("remove: ok=%v order=%+v", ok, o)
	}
	if got := q.AggregatePendingMinutes(); got != 15 {
		t.Fatalf("expected aggregate 15 after remove, got %d", got)
	}
	if _, ok := q.RemoveIfPresent(99); ok {
		t.Fatal("expected absence for id 99")
	}
	if q.Len() != 1 {
		t.Fatalf("expected 1 pending, got %d", q.Len())
	}
}
