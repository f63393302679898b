package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/skyquarter/airlift/internal/domain/asset"
	"github.com/skyquarter/airlift/internal/domain/shared"
)

// roadGrid is the spacing of the simulated road network in meters
const roadGrid = 1000.0

// EngineConfig tunes the simulated physics
type EngineConfig struct {
	// TimeScale compresses travel times: sim seconds per real second.
	// Zero or negative means instant movement with synchronous callbacks,
	// which is what tests want.
	TimeScale float64

	// LoadTime, UnloadTime and LandTime are real-time process durations
	LoadTime   time.Duration
	UnloadTime time.Duration
	LandTime   time.Duration

	// BroadcastRate limits coalition messages per second; bursts beyond
	// BroadcastBurst are dropped
	BroadcastRate  rate.Limit
	BroadcastBurst int
}

// DefaultEngineConfig returns demo-friendly physics
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TimeScale:      60,
		LoadTime:       2 * time.Second,
		UnloadTime:     2 * time.Second,
		LandTime:       time.Second,
		BroadcastRate:  2,
		BroadcastBurst: 10,
	}
}

// Engine is the in-process stand-in for the host simulator. It implements
// every port the core consumes: spawning, routing, cargo handling and
// message broadcast. Movement is simulated by scheduling position updates
// and completion callbacks; nothing here blocks.
type Engine struct {
	cfg     EngineConfig
	catalog *StaticCatalog
	logger  *slog.Logger
	limiter *rate.Limiter

	mu        sync.Mutex
	groups    map[string]*Group
	spawnSeq  int
	spawnFail bool
}

// NewEngine creates a simulator engine backed by the given unit catalog
func NewEngine(cfg EngineConfig, catalog *StaticCatalog, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BroadcastRate <= 0 {
		cfg.BroadcastRate = 2
	}
	if cfg.BroadcastBurst <= 0 {
		cfg.BroadcastBurst = 10
	}
	return &Engine{
		cfg:     cfg,
		catalog: catalog,
		logger:  logger,
		limiter: rate.NewLimiter(cfg.BroadcastRate, cfg.BroadcastBurst),
		groups:  make(map[string]*Group),
	}
}

// FailSpawns makes every subsequent Spawn return an error. Test hook for
// the warehouse's spawn-failure path.
func (e *Engine) FailSpawns(fail bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spawnFail = fail
}

// Group returns a live group by name
func (e *Engine) Group(name string) (*Group, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g, ok := e.groups[name]
	return g, ok
}

// Spawn implements shared.Spawner
func (e *Engine) Spawn(ctx context.Context, templateName string, at shared.Coordinate) (shared.GroupHandle, error) {
	info, err := e.catalog.Resolve(templateName)
	if err != nil {
		return nil, fmt.Errorf("cannot spawn: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.spawnFail {
		return nil, fmt.Errorf("no valid spawn position for %s", templateName)
	}

	e.spawnSeq++
	g := &Group{
		name:     fmt.Sprintf("%s #%03d", templateName, e.spawnSeq),
		category: info.Category,
		maxSpeed: defaultSpeed(info.Category),
		coord:    at,
	}
	e.groups[g.Name()] = g
	e.logger.Debug("group spawned", "group", g.Name(), "at", at.String())
	return g, nil
}

// RouteTo implements shared.Router. Movement completes silently; callers
// that need arrival notification use the hauler instead.
func (e *Engine) RouteTo(ctx context.Context, group shared.GroupHandle, to shared.Coordinate, speed float64, mode shared.RouteMode) error {
	g, ok := e.Group(group.Name())
	if !ok {
		return fmt.Errorf("unknown group: %s", group.Name())
	}
	e.moveGroup(g, to, speed, mode, nil)
	return nil
}

// NearestRoad implements shared.Router: roads run on a 1 km grid, the
// nearest road point snaps the closer axis onto its grid line
func (e *Engine) NearestRoad(from shared.Coordinate) shared.Coordinate {
	snapX := math.Round(from.X/roadGrid) * roadGrid
	snapZ := math.Round(from.Z/roadGrid) * roadGrid
	if math.Abs(from.X-snapX) <= math.Abs(from.Z-snapZ) {
		return shared.Coordinate{X: snapX, Z: from.Z}
	}
	return shared.Coordinate{X: from.X, Z: snapZ}
}

// HaulTo implements shared.CargoHauler
func (e *Engine) HaulTo(ctx context.Context, carrier shared.GroupHandle, to shared.Coordinate, mode shared.RouteMode, done func()) {
	g, ok := e.Group(carrier.Name())
	if !ok {
		e.logger.Error("haul for unknown group dropped", "group", carrier.Name())
		return
	}
	e.moveGroup(g, to, g.MaxSpeed(), mode, done)
}

// LoadCargo implements shared.CargoHauler
func (e *Engine) LoadCargo(ctx context.Context, carrier shared.GroupHandle, cargoNames []string, done func()) {
	e.logger.Debug("loading cargo", "carrier", carrier.Name(), "cargo", cargoNames)
	e.after(e.cfg.LoadTime, done)
}

// UnloadCargo implements shared.CargoHauler: cargo groups reappear next to
// the carrier's current position
func (e *Engine) UnloadCargo(ctx context.Context, carrier shared.GroupHandle, cargoNames []string, done func()) {
	at := carrier.Coordinate()
	e.mu.Lock()
	for i, name := range cargoNames {
		if g, ok := e.groups[name]; ok {
			g.SetCoordinate(at.Translate(float64(20*(i+1)), 0))
		}
	}
	e.mu.Unlock()
	e.logger.Debug("unloading cargo", "carrier", carrier.Name(), "cargo", cargoNames)
	e.after(e.cfg.UnloadTime, done)
}

// Land implements shared.CargoHauler
func (e *Engine) Land(ctx context.Context, carrier shared.GroupHandle, done func()) {
	g, ok := e.Group(carrier.Name())
	if !ok {
		return
	}
	e.after(e.cfg.LandTime, func() {
		g.SetAirborne(false)
		if done != nil {
			done()
		}
	})
}

// BroadcastToCoalition implements shared.Messenger with rate limiting:
// a chatty warehouse cannot flood the message queue
func (e *Engine) BroadcastToCoalition(coalition string, text string) {
	if !e.limiter.Allow() {
		e.logger.Debug("broadcast dropped by rate limit", "coalition", coalition)
		return
	}
	e.logger.Info("broadcast", "coalition", coalition, "text", text)
}

// UpdateMarker implements shared.Messenger
func (e *Engine) UpdateMarker(markerID int, coalition string, text string, at shared.Coordinate) {
	e.logger.Debug("marker updated", "marker", markerID, "coalition", coalition, "at", at.String())
}

// moveGroup relocates a group after its simulated travel time. Air moves
// lift the group off the ground for the duration of the leg.
func (e *Engine) moveGroup(g *Group, to shared.Coordinate, speed float64, mode shared.RouteMode, done func()) {
	if mode == shared.RouteModeAir {
		g.SetAirborne(true)
	}
	travel := e.travelTime(g.Coordinate(), to, speed)
	e.after(travel, func() {
		g.SetCoordinate(to)
		e.logger.Debug("group arrived", "group", g.Name(), "at", to.String())
		if done != nil {
			done()
		}
	})
}

func (e *Engine) travelTime(from, to shared.Coordinate, speed float64) time.Duration {
	if e.cfg.TimeScale <= 0 || speed <= 0 {
		return 0
	}
	seconds := from.DistanceTo(to) / speed / e.cfg.TimeScale
	return time.Duration(seconds * float64(time.Second))
}

// after schedules a callback, invoking it synchronously in instant mode so
// tests stay deterministic
func (e *Engine) after(d time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if e.cfg.TimeScale <= 0 || d <= 0 {
		fn()
		return
	}
	time.AfterFunc(d, fn)
}

func defaultSpeed(category asset.Category) float64 {
	switch category {
	case asset.CategoryAir:
		return 150
	case asset.CategoryShip:
		return 10
	}
	return 20
}
