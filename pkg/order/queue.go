package order

import "sync"

// Queue holds pending orders in arrival order.
type Queue struct {
	mu   sync.RWMutex
	list []Order
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{list: make([]Order, 0, 16)}
}

// Enqueue appends the order to the tail. ErrDuplicateID is a defensive check;
// ids come from a monotonic counter and should never repeat.
func (q *Queue) Enqueue(o Order) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, e := range q.list {
		if e.ID == o.ID {
			return ErrDuplicateID
		}
	}
	q.list = append(q.list, o)
	return nil
}

// AggregatePendingMinutes returns the summed prep time of every pending
// order, computed under one consistent view of the queue.
func (q *Queue) AggregatePendingMinutes() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	total := 0
	for _, o := range q.list {
		total += o.PrepMinutes
	}
	return total
}

// RemoveIfPresent removes the order with the given id and reports whether it
// was there. Used for serving and operator corrections.
func (q *Queue) RemoveIfPresent(id int) (Order, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, o := range q.list {
		if o.ID == id {
			q.list = append(q.list[:i], q.list[i+1:]...)
			return o, true
		}
	}
	return Order{}, false
}

// Snapshot returns a copy of the queue in FIFO order.
func (q *Queue) Snapshot() []Order {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Order, len(q.list))
	copy(out, q.list)
	return out
}

// Len returns the number of pending orders.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.list)
}
