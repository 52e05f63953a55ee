package memory

import (
	"context"
	"testing"
	"time"

	"quickbite/pkg/order"
)

func TestArchive(t *testing.T) {
	ctx := context.Background()
	a := New()

	recs := []order.Record{
		{OrderID: 1, Customer: "alice", PrepMinutes: 30, Status: order.StatusCancelled, RecordedAt: time.Now()},
		{OrderID: 2, Customer: "bob", PrepMinutes: 15, Status: order.StatusServed, RecordedAt: time.Now()},
		{OrderID: 3, Customer: "carol", PrepMinutes: 10, Status: order.StatusCancelled, RecordedAt: time.Now()},
	}
	for _, rec := range recs {
		if err := a.Create(ctx, rec); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	cancelled, err := a.List(ctx, order.StatusCancelled)
	if err != nil {
		t.Fatalf("list cancelled: %v", err)
	}
	if len(cancelled) != 2 {
		t.Fatalf("expected 2 cancelled records, got %d", len(cancelled))
	}
	if cancelled[0].OrderID != 1 || cancelled[1].OrderID != 3 {
		t.Fatalf("records out of insertion order: %v", cancelled)
	}

	all, err := a.List(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("list all: %v len=%d", err, len(all))
	}
}
