package order

import "testing"

func TestEstimate(t *testing.T) {
	if got := Estimate(0, 30); got != 30 {
		t.Fatalf("empty queue: expected 30, got %d", got)
	}
	if got := Estimate(30, 15); got != 45 {
		t.Fatalf("expected 45, got %d", got)
	}
	// Pure: identical inputs, identical output.
	if Estimate(30, 15) != Estimate(30, 15) {
		t.Fatal("estimate is not deterministic")
	}
}
