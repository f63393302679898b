package simulator

import (
	"sync"

	"github.com/skyquarter/airlift/internal/domain/tasking"
)

// MenuBoard is an in-memory tasking.MenuService. Tasking processes publish
// their current menu here; whatever drives the player side (the CLI demo,
// or a test) reads the items back and picks one.
type MenuBoard struct {
	mu    sync.Mutex
	menus map[string][]tasking.MenuItem
}

func NewMenuBoard() *MenuBoard {
	return &MenuBoard{menus: make(map[string][]tasking.MenuItem)}
}

// SetMenu implements tasking.MenuService
func (b *MenuBoard) SetMenu(unitName string, items []tasking.MenuItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.menus[unitName] = items
}

// ClearMenu implements tasking.MenuService
func (b *MenuBoard) ClearMenu(unitName string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.menus, unitName)
}

// Items returns the current menu for a unit
func (b *MenuBoard) Items(unitName string) []tasking.MenuItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]tasking.MenuItem(nil), b.menus[unitName]...)
}

// Choose finds a menu entry by label, the way a player would pick it
func (b *MenuBoard) Choose(unitName string, label string) (tasking.Command, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, item := range b.menus[unitName] {
		if item.Label == label {
			return item.Command, true
		}
	}
	return tasking.Command{}, false
}
