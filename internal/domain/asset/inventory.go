package asset

import "sync"

// Inventory is the ordered collection of stock items held at one warehouse.
//
// Insertion order is preserved and Filter is stable, so "first quantity
// matching items" is a deterministic selection. The mutex guards census and
// status reads that arrive from outside the warehouse's own event loop; all
// mutation happens inside that loop.
type Inventory struct {
	mu    sync.Mutex
	items []*StockItem
}

// NewInventory creates an empty inventory
func NewInventory() *Inventory {
	return &Inventory{items: make([]*StockItem, 0)}
}

// Add appends an item. The caller (the owning warehouse) assigns the id.
func (inv *Inventory) Add(item *StockItem) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.items = append(inv.items, item)
}

// Filter returns the items whose named field equals value, in insertion
// order. The returned slice is a fresh copy; mutating it does not touch the
// inventory.
func (inv *Inventory) Filter(d Descriptor, value any) []*StockItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var matched []*StockItem
	for _, item := range inv.items {
		if item.Matches(d, value) {
			matched = append(matched, item)
		}
	}
	return matched
}

// Delete removes exactly the item with the given id. Returns false when the
// id is absent, in which case the inventory is untouched (idempotent delete).
func (inv *Inventory) Delete(id int64) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for i, item := range inv.items {
		if item.ID == id {
			inv.items = append(inv.items[:i], inv.items[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the total number of items held
func (inv *Inventory) Len() int {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return len(inv.items)
}

// Census counts items per attribute over the full enumeration, so every
// attribute is present in the result even when its count is zero.
func (inv *Inventory) Census() map[Attribute]int {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	census := make(map[Attribute]int, len(Attributes()))
	for _, attr := range Attributes() {
		census[attr] = 0
	}
	for _, item := range inv.items {
		census[item.Attribute]++
	}
	return census
}
