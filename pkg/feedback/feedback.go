// Package feedback implements the append-only per-customer feedback ledger.
package feedback

import "sync"

// Ledger maps customers to their comments in arrival order. Appends for
// different customers share no invariant, so the ledger is its own lock
// domain, independent of the order queue.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string][]string
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string][]string)}
}

// Append records a comment for the customer, creating their sequence on
// first use. Duplicates are allowed.
func (l *Ledger) Append(customer, comment string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[customer] = append(l.entries[customer], comment)
}

// EntriesFor returns the customer's comments in arrival order, empty if none.
func (l *Ledger) EntriesFor(customer string) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.entries[customer]))
	copy(out, l.entries[customer])
	return out
}

// All returns a copy of the whole ledger for reporting.
func (l *Ledger) All() map[string][]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string][]string, len(l.entries))
	for customer, comments := range l.entries {
		cp := make([]string, len(comments))
		copy(cp, comments)
		out[customer] = cp
	}
	return out
}
