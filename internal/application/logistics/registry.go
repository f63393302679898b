package logistics

import (
	"fmt"
	"sync"

	"github.com/skyquarter/airlift/internal/domain/warehouse"
)

// WarehouseRegistry holds the live warehouses of a mission, keyed by location
// name. It is an injected repository, never a process-wide singleton: every
// handler that needs a warehouse receives the registry explicitly.
type WarehouseRegistry struct {
	mu         sync.RWMutex
	warehouses map[string]*warehouse.Warehouse
}

// NewWarehouseRegistry creates an empty registry
func NewWarehouseRegistry() *WarehouseRegistry {
	return &WarehouseRegistry{warehouses: make(map[string]*warehouse.Warehouse)}
}

// Add registers a warehouse under its location name
func (r *WarehouseRegistry) Add(w *warehouse.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.warehouses[w.Name()]; exists {
		return fmt.Errorf("warehouse %s already registered", w.Name())
	}
	r.warehouses[w.Name()] = w
	return nil
}

// Get looks a warehouse up by location name
func (r *WarehouseRegistry) Get(name string) (*warehouse.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.warehouses[name]
	if !ok {
		return nil, fmt.Errorf("warehouse not found: %s", name)
	}
	return w, nil
}

// All returns every registered warehouse
func (r *WarehouseRegistry) All() []*warehouse.Warehouse {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*warehouse.Warehouse, 0, len(r.warehouses))
	for _, w := range r.warehouses {
		all = append(all, w)
	}
	return all
}
