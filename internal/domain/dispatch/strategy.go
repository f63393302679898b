package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/skyquarter/airlift/internal/domain/cargo"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/warehouse"
)

// Deps bundles the collaborator ports every transport strategy consumes
type Deps struct {
	Spawner shared.Spawner
	Hauler  shared.CargoHauler
	Logger  *slog.Logger
	Rand    *rand.Rand
}

// ModeParams tunes cargo handling for one transport mode
type ModeParams struct {
	// LoadRadius is how close cargo must be to board, in meters
	LoadRadius float64

	// NearRadius is how close the carrier approaches the pickup point
	NearRadius float64

	// DeployDelay between cargo loaded and departure for the destination
	DeployDelay time.Duration
}

// strategy is the shared carrier pipeline parameterized per transport mode:
// pick a transport from stock, spawn it, haul it to the pickup, board, fly
// or drive to the destination, unload, and report every cargo group back to
// the warehouse as delivered.
type strategy struct {
	deps      Deps
	mode      warehouse.TransportType
	params    ModeParams
	routeMode shared.RouteMode

	// spawnAt places the carrier: home airbase for air, spawn zone for ground
	spawnAt func(order warehouse.DispatchOrder, rng *rand.Rand) shared.Coordinate

	// destination picks the unload point inside the destination zone
	destination func(order warehouse.DispatchOrder, rng *rand.Rand) shared.Coordinate
}

// Dispatch implements warehouse.Dispatcher for one supported mode
func (s *strategy) Dispatch(ctx context.Context, order warehouse.DispatchOrder) error {
	if len(order.Transports) == 0 {
		return fmt.Errorf("no %s transport in stock", s.mode)
	}

	// Uniform pick over the matching transports, consumed immediately
	pick := order.Transports[s.deps.Rand.Intn(len(order.Transports))]
	order.Consume(pick.ID)

	group, err := s.deps.Spawner.Spawn(ctx, pick.TemplateName, s.spawnAt(order, s.deps.Rand))
	if err != nil {
		return fmt.Errorf("failed to spawn %s carrier %s: %w", s.mode, pick.TemplateName, err)
	}

	carrier, err := cargo.NewCarrier(group, order.Cargo, cargo.Params{
		LoadRadius: s.params.LoadRadius,
		NearRadius: s.params.NearRadius,
		Pickup:     order.Pickup,
	}, s.deps.Logger)
	if err != nil {
		return fmt.Errorf("failed to wrap %s carrier: %w", s.mode, err)
	}

	unloadAt := s.destination(order, s.deps.Rand)

	cargoNames := make([]string, 0, order.Cargo.Size())
	for _, member := range order.Cargo.Members() {
		cargoNames = append(cargoNames, member.Name())
	}

	carrier.OnLoaded(func(c *cargo.Carrier) {
		depart := func() {
			c.Deploy()
			s.deps.Hauler.HaulTo(ctx, c.Group(), unloadAt, s.routeMode, func() {
				c.NotifyArrived()
				s.deps.Hauler.UnloadCargo(ctx, c.Group(), cargoNames, c.NotifyUnloaded)
			})
		}
		if s.params.DeployDelay > 0 {
			time.AfterFunc(s.params.DeployDelay, depart)
			return
		}
		depart()
	})

	carrier.OnUnloaded(func(c *cargo.Carrier) {
		for _, member := range c.CargoSet().Members() {
			c.CargoSet().Remove(member.Name())
			order.Delivered(member)
		}
	})

	if err := carrier.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %s carrier machine: %w", s.mode, err)
	}

	s.deps.Hauler.HaulTo(ctx, group, order.Pickup, s.routeMode, func() {
		carrier.Board()
		s.deps.Hauler.LoadCargo(ctx, group, cargoNames, carrier.NotifyLoaded)
	})

	s.deps.Logger.Info("carrier dispatched",
		"mode", string(s.mode), "carrier", group.Name(), "cargo", order.Cargo.Name())
	return nil
}

func spawnAtHome(order warehouse.DispatchOrder, _ *rand.Rand) shared.Coordinate {
	return order.Home
}

func spawnInZone(order warehouse.DispatchOrder, rng *rand.Rand) shared.Coordinate {
	return order.SpawnZone.RandomPoint(rng)
}

func destinationCenter(order warehouse.DispatchOrder, _ *rand.Rand) shared.Coordinate {
	return order.Destination.Center
}

func destinationInZone(order warehouse.DispatchOrder, rng *rand.Rand) shared.Coordinate {
	return order.Destination.RandomPoint(rng)
}
