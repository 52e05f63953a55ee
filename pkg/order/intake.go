package order

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quickbite/pkg/events"
	"quickbite/pkg/logger"
	"quickbite/pkg/menu"
)

// Receipt is the outcome of a submission transaction.
type Receipt struct {
	Order               Order
	QueueWaitMinutes    int
	TotalWaitMinutes    int
	CancelWindowMinutes int
	Committed           bool
}

// Coordinator runs order submissions. One mutex serializes id assignment,
// the aggregate read, and the conditional enqueue, so every submission sees
// an aggregate consistent with the ids already handed out. Nothing inside
// the locked region does I/O.
type Coordinator struct {
	catalog *menu.Catalog
	queue   *Queue
	gate    *Gate
	archive Archive
	pub     events.Publisher
	log     *logger.Logger

	mu     sync.Mutex
	nextID int
}

// NewCoordinator wires the intake pipeline. State is owned here, not global;
// tests construct a fresh coordinator each.
func NewCoordinator(catalog *menu.Catalog, queue *Queue, gate *Gate, archive Archive, pub events.Publisher, log *logger.Logger) *Coordinator {
	return &Coordinator{
		catalog: catalog,
		queue:   queue,
		gate:    gate,
		archive: archive,
		pub:     pub,
		log:     log,
	}
}

// Submit validates and prices the selection, solicits the commit/discard
// decision via decide (nil means commit), and runs the commit transaction.
// Ids are consumed even when the decision is discard.
func (c *Coordinator) Submit(ctx context.Context, customer string, dishIDs []int, decide DecideFunc) (Receipt, error) {
	items, prep, err := c.price(dishIDs)
	if err != nil {
		return Receipt{}, err
	}

	decision := DecisionCommit
	if decide != nil {
		decision = decide(Quote{
			Customer:            customer,
			Items:               items,
			PrepMinutes:         prep,
			CancelWindowMinutes: c.gate.WindowMinutes(),
		})
	}

	c.mu.Lock()
	c.nextID++
	o := Order{
		ID:          c.nextID,
		Customer:    customer,
		Items:       items,
		PrepMinutes: prep,
		Status:      StatusPending,
	}
	wait := c.queue.AggregatePendingMinutes()
	var enqueueErr error
	if decision == DecisionDiscard {
		o.Status = StatusCancelled
	} else {
		enqueueErr = c.queue.Enqueue(o)
	}
	c.mu.Unlock()

	if enqueueErr != nil {
		c.log.Error(ctx, "enqueue rejected", "order_id", o.ID, "error", enqueueErr)
		return Receipt{}, enqueueErr
	}

	rcpt := Receipt{
		Order:               o,
		QueueWaitMinutes:    wait,
		TotalWaitMinutes:    Estimate(wait, prep),
		CancelWindowMinutes: c.gate.WindowMinutes(),
		Committed:           decision != DecisionDiscard,
	}

	if decision == DecisionDiscard {
		if _, err := c.gate.Discard(ctx, o); err != nil {
			return Receipt{}, err
		}
		c.publish(ctx, events.TypeCancelled, o)
		return rcpt, nil
	}

	c.publish(ctx, events.TypeCommitted, o)
	return rcpt, nil
}

// MarkServed acknowledges kitchen-side completion: the order leaves the
// pending queue, its prep time leaves the aggregate, and a served record is
// archived.
func (c *Coordinator) MarkServed(ctx context.Context, id int) (Record, error) {
	c.mu.Lock()
	o, ok := c.queue.RemoveIfPresent(id)
	c.mu.Unlock()
	if !ok {
		return Record{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	o.Status = StatusServed

	rec := Record{
		OrderID:     o.ID,
		Customer:    o.Customer,
		PrepMinutes: o.PrepMinutes,
		Status:      StatusServed,
		RecordedAt:  time.Now().UTC(),
	}
	if err := c.archive.Create(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("recording served order: %w", err)
	}
	c.publish(ctx, events.TypeServed, o)
	return rec, nil
}

// price resolves the selected positions against the catalog.
func (c *Coordinator) price(dishIDs []int) ([]string, int, error) {
	if len(dishIDs) == 0 {
		return nil, 0, fmt.Errorf("%w: no items selected", ErrInvalidSelection)
	}
	items := make([]string, 0, len(dishIDs))
	total := 0
	for _, id := range dishIDs {
		it, err := c.catalog.ByPosition(id)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
		}
		items = append(items, it.Name)
		total += it.PrepTime
	}
	return items, total, nil
}

func (c *Coordinator) publish(ctx context.Context, typ events.Type, o Order) {
	ev := events.Event{
		Type:        typ,
		OrderID:     o.ID,
		Customer:    o.Customer,
		PrepMinutes: o.PrepMinutes,
		OccurredAt:  time.Now().UTC(),
	}
	if err := c.pub.Publish(ctx, ev); err != nil {
		c.log.Error(ctx, "publish event", "type", typ, "order_id", o.ID, "error", err)
	}
}
