package simulator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquarter/airlift/internal/adapters/simulator"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/tasking"
)

// instantEngine returns an engine whose movement completes synchronously
func instantEngine() *simulator.Engine {
	cfg := simulator.DefaultEngineConfig()
	cfg.TimeScale = 0
	return simulator.NewEngine(cfg, simulator.DefaultCatalog(), nil)
}

func TestEngine_SpawnAssignsUniqueNames(t *testing.T) {
	engine := instantEngine()
	at := shared.NewGroundCoordinate(1000, 2000)

	first, err := engine.Spawn(context.Background(), "M939 Truck", at)
	require.NoError(t, err)
	second, err := engine.Spawn(context.Background(), "M939 Truck", at)
	require.NoError(t, err)

	assert.NotEqual(t, first.Name(), second.Name())
	assert.Equal(t, at, first.Coordinate())
	assert.False(t, first.IsAircraft())

	helo, err := engine.Spawn(context.Background(), "UH-1H Huey", at)
	require.NoError(t, err)
	assert.True(t, helo.IsAircraft())
}

func TestEngine_SpawnUnknownTemplateFails(t *testing.T) {
	engine := instantEngine()

	_, err := engine.Spawn(context.Background(), "Tunguska", shared.Coordinate{})

	assert.Error(t, err)
}

func TestEngine_FailSpawnsHook(t *testing.T) {
	engine := instantEngine()
	engine.FailSpawns(true)

	_, err := engine.Spawn(context.Background(), "M939 Truck", shared.Coordinate{})
	assert.Error(t, err)

	engine.FailSpawns(false)
	_, err = engine.Spawn(context.Background(), "M939 Truck", shared.Coordinate{})
	assert.NoError(t, err)
}

func TestEngine_NearestRoadSnapsTheCloserAxis(t *testing.T) {
	engine := instantEngine()

	// X is 100m from its grid line, Z is 400m from its own
	road := engine.NearestRoad(shared.NewGroundCoordinate(1100, 2400))
	assert.Equal(t, shared.NewGroundCoordinate(1000, 2400), road)

	road = engine.NearestRoad(shared.NewGroundCoordinate(1400, 2100))
	assert.Equal(t, shared.NewGroundCoordinate(1400, 2000), road)

	// On-grid points are their own road point
	road = engine.NearestRoad(shared.NewGroundCoordinate(3000, 7000))
	assert.Equal(t, shared.NewGroundCoordinate(3000, 7000), road)
}

func TestEngine_RouteToMovesTheGroup(t *testing.T) {
	engine := instantEngine()
	group, err := engine.Spawn(context.Background(), "M939 Truck", shared.NewGroundCoordinate(0, 0))
	require.NoError(t, err)

	dest := shared.NewGroundCoordinate(5000, 0)
	require.NoError(t, engine.RouteTo(context.Background(), group, dest, 20, shared.RouteModeRoad))

	assert.Equal(t, dest, group.Coordinate())
}

func TestEngine_RouteToUnknownGroupFails(t *testing.T) {
	engine := instantEngine()
	ghost := simulator.NewEngine(simulator.DefaultEngineConfig(), simulator.DefaultCatalog(), nil)
	group, err := ghost.Spawn(context.Background(), "M939 Truck", shared.Coordinate{})
	require.NoError(t, err)

	err = engine.RouteTo(context.Background(), group, shared.Coordinate{}, 20, shared.RouteModeRoad)

	assert.Error(t, err)
}

func TestEngine_HaulLiftsAndLandDrops(t *testing.T) {
	engine := instantEngine()
	helo, err := engine.Spawn(context.Background(), "UH-1H Huey", shared.NewGroundCoordinate(0, 0))
	require.NoError(t, err)

	var arrived bool
	engine.HaulTo(context.Background(), helo, shared.NewGroundCoordinate(8000, 0), shared.RouteModeAir, func() {
		arrived = true
	})

	assert.True(t, arrived)
	assert.True(t, helo.IsAirborne(), "arrival leaves the aircraft airborne until it lands")
	assert.Equal(t, shared.NewGroundCoordinate(8000, 0), helo.Coordinate())

	var landed bool
	engine.Land(context.Background(), helo, func() { landed = true })

	assert.True(t, landed)
	assert.False(t, helo.IsAirborne())
}

func TestEngine_UnloadPlacesCargoNextToTheCarrier(t *testing.T) {
	engine := instantEngine()
	truck, err := engine.Spawn(context.Background(), "M939 Truck", shared.NewGroundCoordinate(0, 0))
	require.NoError(t, err)
	squad, err := engine.Spawn(context.Background(), "Rifle Squad", shared.NewGroundCoordinate(9000, 9000))
	require.NoError(t, err)

	engine.HaulTo(context.Background(), truck, shared.NewGroundCoordinate(4000, 0), shared.RouteModeRoad, nil)

	var done bool
	engine.UnloadCargo(context.Background(), truck, []string{squad.Name()}, func() { done = true })

	assert.True(t, done)
	assert.InDelta(t, 20, squad.Coordinate().DistanceTo(truck.Coordinate()), 1e-9)
}

func TestMenuBoard_SetChooseClear(t *testing.T) {
	board := simulator.NewMenuBoard()

	board.SetMenu("UH-1H Player", []tasking.MenuItem{
		{Label: "Pickup cargo-alpha", Command: tasking.Command{Kind: tasking.CommandPickup, Cargo: "cargo-alpha"}},
	})

	cmd, ok := board.Choose("UH-1H Player", "Pickup cargo-alpha")
	require.True(t, ok)
	assert.Equal(t, tasking.CommandPickup, cmd.Kind)

	_, ok = board.Choose("UH-1H Player", "nonexistent")
	assert.False(t, ok)

	board.ClearMenu("UH-1H Player")
	assert.Empty(t, board.Items("UH-1H Player"))
}
