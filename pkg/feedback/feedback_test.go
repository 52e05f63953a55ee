package feedback

import (
	"fmt"
	"sync"
	"testing"
)

func TestLedger(t *testing.T) {
	l := NewLedger()
	l.Append("alice", "great food")
	l.Append("alice", "fast too")
	l.Append("bob", "ok")

	got := l.EntriesFor("alice")
	if len(got) != 2 || got[0] != "great food" || got[1] != "fast too" {
		t.Fatalf("wrong entries for alice: %v", got)
	}
	if len(l.EntriesFor("carol")) != 0 {
		t.Fatal("expected no entries for carol")
	}

	all := l.All()
	if len(all) != 2 || len(all["alice"]) != 2 || len(all["bob"]) != 1 {
		t.Fatalf("wrong report: %v", all)
	}
	all["alice"][0] = "mutated"
	if l.EntriesFor("alice")[0] != "great food" {
		t.Fatal("report mutation leaked into the ledger")
	}
}

func TestLedgerConcurrentAppend(t *testing.T) {
	l := NewLedger()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Append("alice", fmt.Sprintf("comment %d", i))
		}(i)
	}
	wg.Wait()
	if got := len(l.EntriesFor("alice")); got != 50 {
		t.Fatalf("expected 50 comments, got %d", got)
	}
}
