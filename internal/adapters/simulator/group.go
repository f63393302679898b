package simulator

import (
	"sync"

	"github.com/skyquarter/airlift/internal/domain/asset"
	"github.com/skyquarter/airlift/internal/domain/shared"
)

// Group is the simulator's live group, implementing shared.GroupHandle.
// Position and airborne flag are mutated by the engine's movement
// simulation and read by the domain's range checks.
type Group struct {
	name     string
	category asset.Category
	maxSpeed float64

	mu       sync.Mutex
	coord    shared.Coordinate
	airborne bool
}

// Name returns the engine-unique group name
func (g *Group) Name() string { return g.name }

// Coordinate returns the group's current position
func (g *Group) Coordinate() shared.Coordinate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.coord
}

// MaxSpeed returns the group's maximum speed in m/s
func (g *Group) MaxSpeed() float64 { return g.maxSpeed }

// IsAircraft reports whether the group is an air unit
func (g *Group) IsAircraft() bool { return g.category == asset.CategoryAir }

// IsAirborne reports whether an air group is currently flying
func (g *Group) IsAirborne() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.airborne
}

// SetCoordinate moves the group. Engine-internal, also handy in tests.
func (g *Group) SetCoordinate(c shared.Coordinate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.coord = c
}

// SetAirborne flips the flying flag
func (g *Group) SetAirborne(airborne bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.airborne = airborne
}
