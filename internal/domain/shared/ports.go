package shared

import "context"

// GroupHandle is the narrow view of a spawned group exposed by the host engine.
// The core never reaches into the engine's native object model; everything it
// needs from a live group goes through this handle.
type GroupHandle interface {
	// Name returns the engine-unique group name
	Name() string

	// Coordinate returns the group's current position
	Coordinate() Coordinate

	// MaxSpeed returns the group's maximum speed in m/s
	MaxSpeed() float64

	// IsAircraft reports whether the group is an air unit
	IsAircraft() bool

	// IsAirborne reports whether an air group is currently flying
	IsAirborne() bool
}

// RouteMode selects how a group travels to a routed point
type RouteMode string

const (
	RouteModeRoad    RouteMode = "ROAD"
	RouteModeOffRoad RouteMode = "OFF_ROAD"
	RouteModeAir     RouteMode = "AIR"
)

// Spawner materializes unit templates into live groups.
// Spawn failures are reported as errors; the caller decides whether to degrade.
type Spawner interface {
	Spawn(ctx context.Context, templateName string, at Coordinate) (GroupHandle, error)
}

// Router issues movement orders to live groups and answers road queries
type Router interface {
	// RouteTo orders the group to the point at the given speed and mode.
	// Fire-and-forget: completion is reported through whatever arrival
	// notification the caller has wired separately.
	RouteTo(ctx context.Context, group GroupHandle, to Coordinate, speed float64, mode RouteMode) error

	// NearestRoad returns the closest point on the road network
	NearestRoad(from Coordinate) Coordinate
}

// CargoHauler abstracts the engine's physical cargo handling. Each call is
// fire-and-forget; the engine invokes done exactly once when the physical
// process completes. The core never blocks waiting on these.
type CargoHauler interface {
	// HaulTo moves the carrier group to a point and reports arrival
	HaulTo(ctx context.Context, carrier GroupHandle, to Coordinate, mode RouteMode, done func())

	// LoadCargo boards the named cargo groups onto the carrier
	LoadCargo(ctx context.Context, carrier GroupHandle, cargoNames []string, done func())

	// UnloadCargo grounds the named cargo groups at the carrier's position
	UnloadCargo(ctx context.Context, carrier GroupHandle, cargoNames []string, done func())

	// Land orders an airborne carrier down at its current position
	Land(ctx context.Context, carrier GroupHandle, done func())
}

// Messenger broadcasts text and map markers to a coalition. Fire-and-forget;
// delivery is best-effort and failures are never surfaced to the core.
type Messenger interface {
	BroadcastToCoalition(coalition string, text string)
	UpdateMarker(markerID int, coalition string, text string, at Coordinate)
}
