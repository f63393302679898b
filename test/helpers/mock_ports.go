package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/warehouse"
)

// MockGroup is a test double for shared.GroupHandle with mutable position
type MockGroup struct {
	mu       sync.Mutex
	name     string
	coord    shared.Coordinate
	speed    float64
	aircraft bool
	airborne bool
}

// NewMockGroup creates a ground group at the given position
func NewMockGroup(name string, at shared.Coordinate, speed float64) *MockGroup {
	return &MockGroup{name: name, coord: at, speed: speed}
}

// NewMockAircraft creates an airborne air group at the given position
func NewMockAircraft(name string, at shared.Coordinate, speed float64) *MockGroup {
	return &MockGroup{name: name, coord: at, speed: speed, aircraft: true, airborne: true}
}

func (g *MockGroup) Name() string { return g.name }

func (g *MockGroup) Coordinate() shared.Coordinate {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.coord
}

func (g *MockGroup) MaxSpeed() float64 { return g.speed }
func (g *MockGroup) IsAircraft() bool  { return g.aircraft }

func (g *MockGroup) IsAirborne() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.airborne
}

// SetCoordinate moves the group
func (g *MockGroup) SetCoordinate(c shared.Coordinate) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.coord = c
}

// SetAirborne flips the flying flag
func (g *MockGroup) SetAirborne(airborne bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.airborne = airborne
}

// SpawnCall represents a single call to Spawn
type SpawnCall struct {
	TemplateName string
	At           shared.Coordinate
}

// MockSpawner is a test double for shared.Spawner. By default every spawn
// succeeds and yields a fresh ground MockGroup at the requested position.
type MockSpawner struct {
	mu         sync.Mutex
	spawnFunc  func(templateName string, at shared.Coordinate) (shared.GroupHandle, error)
	spawnCalls []SpawnCall
	seq        int
}

// NewMockSpawner creates a new mock spawner
func NewMockSpawner() *MockSpawner {
	return &MockSpawner{}
}

// Spawn executes the configured mock function
func (m *MockSpawner) Spawn(ctx context.Context, templateName string, at shared.Coordinate) (shared.GroupHandle, error) {
	m.mu.Lock()
	m.spawnCalls = append(m.spawnCalls, SpawnCall{TemplateName: templateName, At: at})
	m.seq++
	seq := m.seq
	fn := m.spawnFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(templateName, at)
	}
	return NewMockGroup(fmt.Sprintf("%s #%d", templateName, seq), at, 20), nil
}

// SetSpawnFunc sets the function to call when Spawn is invoked
func (m *MockSpawner) SetSpawnFunc(f func(templateName string, at shared.Coordinate) (shared.GroupHandle, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spawnFunc = f
}

// GetSpawnCalls returns all recorded spawn calls
func (m *MockSpawner) GetSpawnCalls() []SpawnCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SpawnCall(nil), m.spawnCalls...)
}

// RouteCall represents a single call to RouteTo
type RouteCall struct {
	Group string
	To    shared.Coordinate
	Speed float64
	Mode  shared.RouteMode
}

// MockRouter is a test double for shared.Router
type MockRouter struct {
	mu         sync.Mutex
	routeCalls []RouteCall
	roadOffset shared.Coordinate
}

// NewMockRouter creates a new mock router whose NearestRoad is the identity
func NewMockRouter() *MockRouter {
	return &MockRouter{}
}

// SetRoadOffset makes NearestRoad return the query point shifted by the offset
func (m *MockRouter) SetRoadOffset(offset shared.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roadOffset = offset
}

// RouteTo records the routing order
func (m *MockRouter) RouteTo(ctx context.Context, group shared.GroupHandle, to shared.Coordinate, speed float64, mode shared.RouteMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routeCalls = append(m.routeCalls, RouteCall{Group: group.Name(), To: to, Speed: speed, Mode: mode})
	return nil
}

// NearestRoad returns the query point plus the configured offset
func (m *MockRouter) NearestRoad(from shared.Coordinate) shared.Coordinate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return from.Translate(m.roadOffset.X, m.roadOffset.Z)
}

// GetRouteCalls returns all recorded routing orders
func (m *MockRouter) GetRouteCalls() []RouteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RouteCall(nil), m.routeCalls...)
}

// MockMessenger is a test double for shared.Messenger recording broadcasts
type MockMessenger struct {
	mu         sync.Mutex
	broadcasts []string
	markers    []string
}

// NewMockMessenger creates a new mock messenger
func NewMockMessenger() *MockMessenger {
	return &MockMessenger{}
}

// BroadcastToCoalition records the message text
func (m *MockMessenger) BroadcastToCoalition(coalition string, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcasts = append(m.broadcasts, text)
}

// UpdateMarker records the marker text
func (m *MockMessenger) UpdateMarker(markerID int, coalition string, text string, at shared.Coordinate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, text)
}

// GetBroadcasts returns all recorded broadcast texts
func (m *MockMessenger) GetBroadcasts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.broadcasts...)
}

// GetMarkers returns all recorded marker texts
func (m *MockMessenger) GetMarkers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.markers...)
}

// HaulCall represents a single call to HaulTo
type HaulCall struct {
	Carrier string
	To      shared.Coordinate
	Mode    shared.RouteMode
}

// MockHauler is a test double for shared.CargoHauler. When Synchronous is
// set (the default) every done callback fires immediately; otherwise the
// callbacks are captured for the test to fire by hand.
type MockHauler struct {
	mu          sync.Mutex
	Synchronous bool

	haulCalls   []HaulCall
	loadCalls   [][]string
	unloadCalls [][]string
	landCalls   []string

	pending []func()
}

// NewMockHauler creates a synchronous mock hauler
func NewMockHauler() *MockHauler {
	return &MockHauler{Synchronous: true}
}

func (m *MockHauler) complete(done func()) {
	if done == nil {
		return
	}
	if m.Synchronous {
		done()
		return
	}
	m.mu.Lock()
	m.pending = append(m.pending, done)
	m.mu.Unlock()
}

// HaulTo records the leg and completes it
func (m *MockHauler) HaulTo(ctx context.Context, carrier shared.GroupHandle, to shared.Coordinate, mode shared.RouteMode, done func()) {
	m.mu.Lock()
	m.haulCalls = append(m.haulCalls, HaulCall{Carrier: carrier.Name(), To: to, Mode: mode})
	m.mu.Unlock()
	if g, ok := carrier.(*MockGroup); ok {
		g.SetCoordinate(to)
	}
	m.complete(done)
}

// LoadCargo records the cargo names and completes the load
func (m *MockHauler) LoadCargo(ctx context.Context, carrier shared.GroupHandle, cargoNames []string, done func()) {
	m.mu.Lock()
	m.loadCalls = append(m.loadCalls, append([]string(nil), cargoNames...))
	m.mu.Unlock()
	m.complete(done)
}

// UnloadCargo records the cargo names and completes the unload
func (m *MockHauler) UnloadCargo(ctx context.Context, carrier shared.GroupHandle, cargoNames []string, done func()) {
	m.mu.Lock()
	m.unloadCalls = append(m.unloadCalls, append([]string(nil), cargoNames...))
	m.mu.Unlock()
	m.complete(done)
}

// Land records the landing and completes it
func (m *MockHauler) Land(ctx context.Context, carrier shared.GroupHandle, done func()) {
	m.mu.Lock()
	m.landCalls = append(m.landCalls, carrier.Name())
	m.mu.Unlock()
	if g, ok := carrier.(*MockGroup); ok {
		g.SetAirborne(false)
	}
	m.complete(done)
}

// FirePending runs and clears the captured callbacks (asynchronous mode)
func (m *MockHauler) FirePending() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// GetHaulCalls returns all recorded haul legs
func (m *MockHauler) GetHaulCalls() []HaulCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]HaulCall(nil), m.haulCalls...)
}

// GetLoadCalls returns all recorded load orders
func (m *MockHauler) GetLoadCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.loadCalls...)
}

// GetUnloadCalls returns all recorded unload orders
func (m *MockHauler) GetUnloadCalls() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]string(nil), m.unloadCalls...)
}

// GetLandCalls returns all recorded landings
func (m *MockHauler) GetLandCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.landCalls...)
}

// MockDispatcher is a test double for warehouse.Dispatcher capturing orders
type MockDispatcher struct {
	mu           sync.Mutex
	dispatchFunc func(order warehouse.DispatchOrder) error
	orders       []warehouse.DispatchOrder
}

// NewMockDispatcher creates a new mock dispatcher
func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

// Dispatch captures the order
func (m *MockDispatcher) Dispatch(ctx context.Context, order warehouse.DispatchOrder) error {
	m.mu.Lock()
	m.orders = append(m.orders, order)
	fn := m.dispatchFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(order)
	}
	return nil
}

// SetDispatchFunc sets the function to call when Dispatch is invoked
func (m *MockDispatcher) SetDispatchFunc(f func(order warehouse.DispatchOrder) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatchFunc = f
}

// GetOrders returns all captured dispatch orders
func (m *MockDispatcher) GetOrders() []warehouse.DispatchOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]warehouse.DispatchOrder(nil), m.orders...)
}

// MockRecorder is a test double for warehouse.MovementRecorder
type MockRecorder struct {
	mu        sync.Mutex
	movements []warehouse.Movement
}

// NewMockRecorder creates a new mock movement recorder
func NewMockRecorder() *MockRecorder {
	return &MockRecorder{}
}

// RecordMovement captures the movement
func (m *MockRecorder) RecordMovement(ctx context.Context, movement warehouse.Movement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements = append(m.movements, movement)
	return nil
}

// GetMovements returns all captured movements
func (m *MockRecorder) GetMovements() []warehouse.Movement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]warehouse.Movement(nil), m.movements...)
}
