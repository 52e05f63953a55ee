package order

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"

	"quickbite/pkg/events"
	"quickbite/pkg/logger"
	"quickbite/pkg/menu"
)

type archiveStub struct {
	mu   sync.Mutex
	recs []Record
}

func (a *archiveStub) Create(_ context.Context, rec Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recs = append(a.recs, rec)
	return nil
}

func (a *archiveStub) List(_ context.Context, status Status) ([]Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []Record
	for _, rec := range a.recs {
		if status == "" || rec.Status == status {
			out = append(out, rec)
		}
	}
	return out, nil
}

type publisherStub struct {
	mu  sync.Mutex
	evs []events.Event
}

func (p *publisherStub) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evs = append(p.evs, ev)
	return nil
}

func newTestCoordinator(t *testing.T, pub events.Publisher) (*Coordinator, *Queue, *archiveStub) {
	t.Helper()
	q := NewQueue()
	a := &archiveStub{}
	log := logger.New(io.Discard, logger.LevelInfo, "test", nil)
	return NewCoordinator(menu.Default(), q, NewGate(5, a), a, pub, log), q, a
}

func discard(Quote) Decision { return DecisionDiscard }

func TestSubmitEstimatesWait(t *testing.T) {
	ctx := context.Background()
	c, q, _ := newTestCoordinator(t, events.Nop{})

	// Biryani (20) + Masala Fries (10) against an empty queue.
	rcpt, err := c.Submit(ctx, "alice", []int{1, 3}, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !rcpt.Committed || rcpt.Order.ID != 1 {
		t.Fatalf("unexpected receipt: %+v", rcpt)
	}
	if rcpt.Order.PrepMinutes != 30 || rcpt.QueueWaitMinutes != 0 || rcpt.TotalWaitMinutes != 30 {
		t.Fatalf("wrong estimate: %+v", rcpt)
	}
	if rcpt.CancelWindowMinutes != 5 {
		t.Fatalf("expected 5 minute window, got %d", rcpt.CancelWindowMinutes)
	}

	// Burger (15) queued behind the first order.
	rcpt2, err := c.Submit(ctx, "bob", []int{2}, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rcpt2.Order.PrepMinutes != 15 || rcpt2.QueueWaitMinutes != 30 || rcpt2.TotalWaitMinutes != 45 {
		t.Fatalf("wrong estimate behind queued work: %+v", rcpt2)
	}

	if got := q.AggregatePendingMinutes(); got != 45 {
		t.Fatalf("expected aggregate 45, got %d", got)
	}
}

func TestSubmitDiscard(t *testing.T) {
	ctx := context.Background()
	c, q, a := newTestCoordinator(t, events.Nop{})

	rcpt, err := c.Submit(ctx, "alice", []int{2}, discard)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rcpt.Committed || rcpt.Order.Status != StatusCancelled {
		t.Fatalf("expected discarded receipt, got %+v", rcpt)
	}
	if q.Len() != 0 || len(q.Snapshot()) != 0 {
		t.Fatal("discarded order is visible in the queue")
	}

	recs, err := a.List(ctx, StatusCancelled)
	if err != nil || len(recs) != 1 || recs[0].OrderID != 1 {
		t.Fatalf("cancellation not archived: %v %+v", err, recs)
	}

	// The discarded prep time never counts against the next customer, but
	// its id is consumed.
	rcpt2, err := c.Submit(ctx, "bob", []int{4}, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rcpt2.QueueWaitMinutes != 0 {
		t.Fatalf("discarded order leaked into aggregate: %+v", rcpt2)
	}
	if rcpt2.Order.ID != 2 {
		t.Fatalf("expected id 2 after discard, got %d", rcpt2.Order.ID)
	}
}

func TestSubmitInvalidSelection(t *testing.T) {
	ctx := context.Background()
	c, q, _ := newTestCoordinator(t, events.Nop{})

	if _, err := c.Submit(ctx, "alice", nil, nil); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection for empty selection, got %v", err)
	}
	if _, err := c.Submit(ctx, "alice", []int{9}, nil); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection for unknown position, got %v", err)
	}
	if q.Len() != 0 || q.AggregatePendingMinutes() != 0 {
		t.Fatal("rejected submission touched the queue")
	}

	// Rejections must not consume ids.
	rcpt, err := c.Submit(ctx, "alice", []int{1}, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rcpt.Order.ID != 1 {
		t.Fatalf("expected id 1, got %d", rcpt.Order.ID)
	}
}

func TestMarkServed(t *testing.T) {
	ctx := context.Background()
	c, q, a := newTestCoordinator(t, events.Nop{})

	rcpt, err := c.Submit(ctx, "alice", []int{1}, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	rec, err := c.MarkServed(ctx, rcpt.Order.ID)
	if err != nil {
		t.Fatalf("mark served: %v", err)
	}
	if rec.Status != StatusServed || rec.PrepMinutes != 20 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if q.AggregatePendingMinutes() != 0 || q.Len() != 0 {
		t.Fatal("served order still pending")
	}

	recs, err := a.List(ctx, StatusServed)
	if err != nil || len(recs) != 1 {
		t.Fatalf("served record not archived: %v %+v", err, recs)
	}

	if _, err := c.MarkServed(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLifecycleEvents(t *testing.T) {
	ctx := context.Background()
	pub := &publisherStub{}
	c, _, _ := newTestCoordinator(t, pub)

	rcpt, err := c.Submit(ctx, "alice", []int{1}, nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := c.Submit(ctx, "bob", []int{2}, discard); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := c.MarkServed(ctx, rcpt.Order.ID); err != nil {
		t.Fatalf("mark served: %v", err)
	}

	want := []events.Type{events.TypeCommitted, events.TypeCancelled, events.TypeServed}
	if len(pub.evs) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(pub.evs))
	}
	for i, typ := range want {
		if pub.evs[i].Type != typ {
			t.Fatalf("event %d: expected %s, got %s", i, typ, pub.evs[i].Type)
		}
	}
}

func TestConcurrentSubmissions(t *testing.T) {
	ctx := context.Background()
	c, q, _ := newTestCoordinator(t, events.Nop{})

	const n = 32
	var mu sync.Mutex
	receipts := make([]Receipt, 0, n)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			var decide DecideFunc
			if i%2 == 1 {
				decide = discard
			}
			rcpt, err := c.Submit(ctx, "customer", []int{i%4 + 1}, decide)
			if err != nil {
				return err
			}
			mu.Lock()
			receipts = append(receipts, rcpt)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Ids are exactly {1..n}, no duplicates, no gaps, discard or not.
	seen := make(map[int]bool, n)
	for _, rcpt := range receipts {
		if rcpt.Order.ID < 1 || rcpt.Order.ID > n || seen[rcpt.Order.ID] {
			t.Fatalf("bad id assignment: %d", rcpt.Order.ID)
		}
		seen[rcpt.Order.ID] = true
	}

	// Submissions serialize in id order, so each one's reported wait is the
	// summed prep of every committed order with a lower id.
	prepByID := make(map[int]int, n)
	committed := make(map[int]bool, n)
	for _, rcpt := range receipts {
		prepByID[rcpt.Order.ID] = rcpt.Order.PrepMinutes
		committed[rcpt.Order.ID] = rcpt.Committed
	}
	totalCommitted := 0
	for _, rcpt := range receipts {
		wantWait := 0
		for id := 1; id < rcpt.Order.ID; id++ {
			if committed[id] {
				wantWait += prepByID[id]
			}
		}
		if rcpt.QueueWaitMinutes != wantWait {
			t.Fatalf("order %d: reported wait %d, expected %d", rcpt.Order.ID, rcpt.QueueWaitMinutes, wantWait)
		}
		if rcpt.TotalWaitMinutes != wantWait+rcpt.Order.PrepMinutes {
			t.Fatalf("order %d: inconsistent total wait %+v", rcpt.Order.ID, rcpt)
		}
		if rcpt.Committed {
			totalCommitted += rcpt.Order.PrepMinutes
		}
	}

	if got := q.AggregatePendingMinutes(); got != totalCommitted {
		t.Fatalf("aggregate %d does not match committed prep %d", got, totalCommitted)
	}
	for _, o := range q.Snapshot() {
		if !committed[o.ID] {
			t.Fatalf("discarded order %d visible in snapshot", o.ID)
		}
	}
}
