// Package menu provides the immutable menu catalog.
package menu

import (
	"errors"
	"fmt"
)

// Item is a single dish on the menu. ID is the item's 1-based position in the
// catalog, fixed when the catalog is built.
type Item struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	PrepTime int    `json:"prepTime"`
}

// ErrUnknownItem indicates the requested menu item does not exist.
var ErrUnknownItem = errors.New("unknown menu item")

// Catalog maps menu items to preparation times. Read-only after New, so it
// needs no locking.
type Catalog struct {
	items []Item
	prep  map[string]int
}

// New builds a catalog from the given items. Position ids are assigned once
// here and never recomputed.
func New(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, errors.New("menu: no items")
	}
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		prep:  make(map[string]int, len(items)),
	}
	for i, it := range items {
		if it.Name == "" {
			return nil, fmt.Errorf("menu: item %d has no name", i+1)
		}
		if it.PrepTime <= 0 {
			return nil, fmt.Errorf("menu: item %q has non-positive prep time", it.Name)
		}
		if _, ok := c.prep[it.Name]; ok {
			return nil, fmt.Errorf("menu: duplicate item %q", it.Name)
		}
		it.ID = i + 1
		c.items = append(c.items, it)
		c.prep[it.Name] = it.PrepTime
	}
	return c, nil
}

// Default returns the seeded house menu.
func Default() *Catalog {
	c, err := New([]Item{
		{Name: "Chicken Biryani", PrepTime: 20},
		{Name: "Beef Burger", PrepTime: 15},
		{Name: "Masala Fries", PrepTime: 10},
		{Name: "Mint Lemonade", PrepTime: 5},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// ItemsInOrder returns the menu in its fixed catalog order.
func (c *Catalog) ItemsInOrder() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// PrepMinutes returns the preparation time for the named item.
func (c *Catalog) PrepMinutes(name string) (int, error) {
	p, ok := c.prep[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownItem, name)
	}
	return p, nil
}

// ByPosition resolves a 1-based position id to its item.
func (c *Catalog) ByPosition(id int) (Item, error) {
	if id < 1 || id > len(c.items) {
		return Item{}, fmt.Errorf("%w: position %d", ErrUnknownItem, id)
	}
	return c.items[id-1], nil
}
