package tasking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquarter/airlift/internal/domain/cargo"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/tasking"
	"github.com/skyquarter/airlift/test/helpers"
)

// recordingMenu is an in-memory tasking.MenuService capturing the last menu
type recordingMenu struct {
	mu    sync.Mutex
	menus map[string][]tasking.MenuItem
}

func newRecordingMenu() *recordingMenu {
	return &recordingMenu{menus: make(map[string][]tasking.MenuItem)}
}

func (m *recordingMenu) SetMenu(unitName string, items []tasking.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menus[unitName] = items
}

func (m *recordingMenu) ClearMenu(unitName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.menus, unitName)
}

func (m *recordingMenu) items(unitName string) []tasking.MenuItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]tasking.MenuItem(nil), m.menus[unitName]...)
}

type processFixture struct {
	process *tasking.Process
	unit    *helpers.MockGroup
	hauler  *helpers.MockHauler
	menu    *recordingMenu
	squad   *helpers.MockGroup
	set     *cargo.Set
}

// newProcessFixture builds a started process for a ground carrier unit with
// one cargo set 100m away and one deploy zone 10km out
func newProcessFixture(t *testing.T, aircraft bool) *processFixture {
	t.Helper()

	var unit *helpers.MockGroup
	if aircraft {
		unit = helpers.NewMockAircraft("UH-1H Player", shared.NewGroundCoordinate(0, 0), 60)
	} else {
		unit = helpers.NewMockGroup("M939 Player", shared.NewGroundCoordinate(0, 0), 20)
	}

	squad := helpers.NewMockGroup("Rifle Squad #1", shared.NewGroundCoordinate(100, 0), 5)
	set, err := cargo.NewSet("cargo-alpha", []shared.GroupHandle{squad})
	require.NoError(t, err)

	f := &processFixture{
		unit:   unit,
		hauler: helpers.NewMockHauler(),
		menu:   newRecordingMenu(),
		squad:  squad,
		set:    set,
	}

	p, err := tasking.NewProcess(unit, tasking.Params{LoadRadius: 500, DeployRadius: 500}, tasking.Deps{
		Hauler: f.hauler,
		Menu:   f.menu,
	})
	require.NoError(t, err)
	f.process = p

	p.AddCargo(set)
	zone, err := shared.NewZone("LZ Falcon", shared.NewGroundCoordinate(10000, 0), 500)
	require.NoError(t, err)
	p.AddDeployZone("LZ Falcon", zone)

	require.NoError(t, p.Start(context.Background()))
	t.Cleanup(func() { p.Stop() })

	return f
}

func eventuallyInState(t *testing.T, p *tasking.Process, want string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return string(p.State()) == want
	}, time.Second, time.Millisecond, "never reached %s, stuck in %s", want, p.State())
}

func TestProcess_RejectTerminates(t *testing.T) {
	f := newProcessFixture(t, false)

	require.NoError(t, f.process.Reject())

	assert.Equal(t, tasking.StateAborted, f.process.State())
	assert.Empty(t, f.menu.items(f.unit.Name()), "a rejected task offers no menu")
}

func TestProcess_AcceptOffersMenu(t *testing.T) {
	f := newProcessFixture(t, false)

	require.NoError(t, f.process.Accept())

	assert.Equal(t, tasking.StateWaitingForCommand, f.process.State())

	items := f.menu.items(f.unit.Name())
	require.Len(t, items, 1)
	// Unit starts within load radius of the cargo, so the menu offers pickup
	assert.Equal(t, tasking.CommandPickup, items[0].Command.Kind)
	assert.Equal(t, "cargo-alpha", items[0].Command.Cargo)
}

func TestProcess_MenuOffersRoutingWhenCargoIsFar(t *testing.T) {
	f := newProcessFixture(t, false)
	f.squad.SetCoordinate(shared.NewGroundCoordinate(5000, 0))

	require.NoError(t, f.process.Accept())

	items := f.menu.items(f.unit.Name())
	require.Len(t, items, 1)
	assert.Equal(t, tasking.CommandRouteToPickup, items[0].Command.Kind)
}

func TestProcess_InRangeRoutingSkipsTheLeg(t *testing.T) {
	// Arrange: cargo already in load range
	f := newProcessFixture(t, false)
	require.NoError(t, f.process.Accept())

	// Act: route-to-pickup resolves through the junction without a leg
	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandRouteToPickup, Cargo: "cargo-alpha"}))

	// Assert: no haul issued, straight back to the command hub
	eventuallyInState(t, f.process, string(tasking.StateWaitingForCommand))
	assert.Empty(t, f.hauler.GetHaulCalls())
}

func TestProcess_OutOfRangeRoutingIssuesALeg(t *testing.T) {
	// Arrange: cargo far away
	f := newProcessFixture(t, false)
	f.squad.SetCoordinate(shared.NewGroundCoordinate(5000, 0))
	require.NoError(t, f.process.Accept())

	// Act: the synchronous hauler moves the unit and reports arrival
	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandRouteToPickup, Cargo: "cargo-alpha"}))

	// Assert
	eventuallyInState(t, f.process, string(tasking.StateWaitingForCommand))

	hauls := f.hauler.GetHaulCalls()
	require.Len(t, hauls, 1)
	assert.Equal(t, shared.NewGroundCoordinate(5000, 0), hauls[0].To)
	assert.Equal(t, shared.RouteModeRoad, hauls[0].Mode, "ground units route by road")

	// Having arrived, the menu now offers pickup
	items := f.menu.items(f.unit.Name())
	require.Len(t, items, 1)
	assert.Equal(t, tasking.CommandPickup, items[0].Command.Kind)
}

func TestProcess_AircraftLandsBeforeReturningToHub(t *testing.T) {
	// Arrange: airborne helicopter, cargo out of range
	f := newProcessFixture(t, true)
	f.squad.SetCoordinate(shared.NewGroundCoordinate(5000, 0))
	require.NoError(t, f.process.Accept())
	require.True(t, f.unit.IsAirborne())

	// Act
	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandRouteToPickup, Cargo: "cargo-alpha"}))

	// Assert: the arrival detoured through the landing protocol
	eventuallyInState(t, f.process, string(tasking.StateWaitingForCommand))
	assert.Equal(t, []string{f.unit.Name()}, f.hauler.GetLandCalls())
	assert.False(t, f.unit.IsAirborne())

	hauls := f.hauler.GetHaulCalls()
	require.Len(t, hauls, 1)
	assert.Equal(t, shared.RouteModeAir, hauls[0].Mode)
}

func TestProcess_PickupBoardsTheCargo(t *testing.T) {
	f := newProcessFixture(t, false)
	require.NoError(t, f.process.Accept())

	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandPickup, Cargo: "cargo-alpha"}))

	eventuallyInState(t, f.process, string(tasking.StateWaitingForCommand))

	loads := f.hauler.GetLoadCalls()
	require.Len(t, loads, 1)
	assert.Equal(t, []string{"Rifle Squad #1"}, loads[0])

	// With the cargo aboard the menu switches to deploy commands
	items := f.menu.items(f.unit.Name())
	require.Len(t, items, 1)
	assert.Equal(t, tasking.CommandRouteToZone, items[0].Command.Kind)
	assert.Equal(t, "LZ Falcon", items[0].Command.Zone)
}

func TestProcess_PickupOutOfRangeIsIgnored(t *testing.T) {
	f := newProcessFixture(t, false)
	f.squad.SetCoordinate(shared.NewGroundCoordinate(5000, 0))
	require.NoError(t, f.process.Accept())

	// A stale pickup command fails its guard and changes nothing
	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandPickup, Cargo: "cargo-alpha"}))

	assert.Equal(t, tasking.StateWaitingForCommand, f.process.State())
	assert.Empty(t, f.hauler.GetLoadCalls())
}

func TestProcess_UnknownCargoIsIgnored(t *testing.T) {
	f := newProcessFixture(t, false)
	require.NoError(t, f.process.Accept())

	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandPickup, Cargo: "cargo-ghost"}))

	assert.Equal(t, tasking.StateWaitingForCommand, f.process.State())
	assert.Empty(t, f.hauler.GetLoadCalls())
}

func TestProcess_FullTaskEndsInSuccess(t *testing.T) {
	// Arrange
	f := newProcessFixture(t, false)
	require.NoError(t, f.process.Accept())

	// Act: board, ride to the zone, deploy
	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandPickup, Cargo: "cargo-alpha"}))
	eventuallyInState(t, f.process, string(tasking.StateWaitingForCommand))

	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandRouteToZone, Cargo: "cargo-alpha", Zone: "LZ Falcon"}))
	eventuallyInState(t, f.process, string(tasking.StateWaitingForCommand))

	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandDeploy, Cargo: "cargo-alpha", Zone: "LZ Falcon"}))

	// Assert: last cargo deployed completes the task
	eventuallyInState(t, f.process, string(tasking.StateSuccess))

	unloads := f.hauler.GetUnloadCalls()
	require.Len(t, unloads, 1)
	assert.Equal(t, []string{"Rifle Squad #1"}, unloads[0])

	// The menu is gone and the task cannot be failed anymore
	assert.Empty(t, f.menu.items(f.unit.Name()))
	require.NoError(t, f.process.Abandon())
	assert.Equal(t, tasking.StateSuccess, f.process.State())
}

func TestProcess_DeployWithoutLoadedCargoIsIgnored(t *testing.T) {
	f := newProcessFixture(t, false)
	require.NoError(t, f.process.Accept())
	f.unit.SetCoordinate(shared.NewGroundCoordinate(10000, 0))

	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandDeploy, Cargo: "cargo-alpha", Zone: "LZ Falcon"}))

	assert.Equal(t, tasking.StateWaitingForCommand, f.process.State())
	assert.Empty(t, f.hauler.GetUnloadCalls())
}

func TestProcess_AbandonFailsTheTask(t *testing.T) {
	f := newProcessFixture(t, false)
	require.NoError(t, f.process.Accept())

	require.NoError(t, f.process.Abandon())

	assert.Equal(t, tasking.StateFailed, f.process.State())
	assert.Empty(t, f.menu.items(f.unit.Name()))
}

func TestProcess_SubmitFeedsTheCommandPump(t *testing.T) {
	f := newProcessFixture(t, false)
	require.NoError(t, f.process.Accept())

	f.process.Submit(tasking.Command{Kind: tasking.CommandPickup, Cargo: "cargo-alpha"})

	require.Eventually(t, func() bool {
		return len(f.hauler.GetLoadCalls()) == 1
	}, time.Second, time.Millisecond)
}

func TestProcess_RemoveDeployZone(t *testing.T) {
	f := newProcessFixture(t, false)
	require.NoError(t, f.process.Accept())

	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandPickup, Cargo: "cargo-alpha"}))
	eventuallyInState(t, f.process, string(tasking.StateWaitingForCommand))

	f.process.RemoveDeployZone("LZ Falcon")

	// A deploy order against the withdrawn zone fails its guard
	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandRouteToZone, Cargo: "cargo-alpha", Zone: "LZ Falcon"}))
	assert.Equal(t, tasking.StateWaitingForCommand, f.process.State())
	assert.Empty(t, f.hauler.GetHaulCalls())
}

func TestProcess_AirbornePickupLandsBeforeBoarding(t *testing.T) {
	// Arrange: airborne helicopter already hovering inside load range
	f := newProcessFixture(t, true)
	require.NoError(t, f.process.Accept())
	require.True(t, f.unit.IsAirborne())

	// Act
	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandPickup, Cargo: "cargo-alpha"}))

	// Assert: boarding waited for touchdown
	eventuallyInState(t, f.process, string(tasking.StateWaitingForCommand))
	assert.Equal(t, []string{f.unit.Name()}, f.hauler.GetLandCalls())
	assert.False(t, f.unit.IsAirborne())

	loads := f.hauler.GetLoadCalls()
	require.Len(t, loads, 1)
	assert.Equal(t, []string{"Rifle Squad #1"}, loads[0])
}

func TestProcess_AirborneDeployLandsBeforeUnloading(t *testing.T) {
	// Arrange: board the cargo on the ground, then take off over the zone
	f := newProcessFixture(t, true)
	require.NoError(t, f.process.Accept())
	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandPickup, Cargo: "cargo-alpha"}))
	eventuallyInState(t, f.process, string(tasking.StateWaitingForCommand))

	f.unit.SetAirborne(true)
	f.unit.SetCoordinate(shared.NewGroundCoordinate(10000, 0))

	// Act
	require.NoError(t, f.process.Handle(tasking.Command{Kind: tasking.CommandDeploy, Cargo: "cargo-alpha", Zone: "LZ Falcon"}))

	// Assert: one landing per touchdown, unload only after the second
	eventuallyInState(t, f.process, string(tasking.StateSuccess))
	assert.Len(t, f.hauler.GetLandCalls(), 2)
	assert.False(t, f.unit.IsAirborne())

	unloads := f.hauler.GetUnloadCalls()
	require.Len(t, unloads, 1)
	assert.Equal(t, []string{"Rifle Squad #1"}, unloads[0])
}
