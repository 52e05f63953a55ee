package menu

import (
	"errors"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	items := c.ItemsInOrder()
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	for i, it := range items {
		if it.ID != i+1 {
			t.Fatalf("position id drift at %d: %+v", i, it)
		}
	}

	p, err := c.PrepMinutes("Beef Burger")
	if err != nil {
		t.Fatalf("prep minutes: %v", err)
	}
	if p != 15 {
		t.Fatalf("expected 15, got %d", p)
	}

	if _, err := c.PrepMinutes("Sushi"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}

	it, err := c.ByPosition(1)
	if err != nil || it.Name != "Chicken Biryani" {
		t.Fatalf("by position: %v %+v", err, it)
	}
	if _, err := c.ByPosition(0); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem for position 0, got %v", err)
	}
	if _, err := c.ByPosition(5); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem for position 5, got %v", err)
	}
}

func TestNewRejectsBadItems(t *testing.T) {
	cases := []struct {
		name  string
		items []Item
	}{
		{"empty", nil},
		{"missing name", []Item{{PrepTime: 10}}},
		{"non-positive prep", []Item{{Name: "Tea", PrepTime: 0}}},
		{"duplicate name", []Item{{Name: "Tea", PrepTime: 5}, {Name: "Tea", PrepTime: 7}}},
	}
	for _, tc := range cases {
		if _, err := New(tc.items); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}
