package cargo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/librescoot/librefsm"

	"github.com/skyquarter/airlift/internal/domain/shared"
)

// Carrier states
const (
	StateIdle      librefsm.StateID = "IDLE"
	StateBoarding  librefsm.StateID = "BOARDING"
	StateLoaded    librefsm.StateID = "LOADED"
	StateEnRoute   librefsm.StateID = "EN_ROUTE"
	StateUnloading librefsm.StateID = "UNLOADING"
	StateUnloaded  librefsm.StateID = "UNLOADED"
)

// Carrier events
const (
	eventBoard    librefsm.EventID = "board"
	eventLoaded   librefsm.EventID = "loaded"
	eventDeploy   librefsm.EventID = "deploy"
	eventUnload   librefsm.EventID = "unload"
	eventUnloaded librefsm.EventID = "unloaded"
)

// Params configures a carrier's cargo behavior for its transport mode
type Params struct {
	// LoadRadius is how close cargo must be to board, in meters
	LoadRadius float64

	// NearRadius is how close the carrier approaches the pickup point
	NearRadius float64

	// Pickup is where the cargo waits to be collected
	Pickup shared.Coordinate
}

// Carrier drives one transport group through the load → transit → unload
// cycle of a cargo set. It is the sub-machine that both the warehouse's
// delivery dispatch and the per-player tasking process wait on: interested
// parties register Loaded/Unloaded callbacks and resume their own machines
// when the carrier reports the corresponding transition.
type Carrier struct {
	group  shared.GroupHandle
	set    *Set
	params Params

	machine *librefsm.Machine
	logger  *slog.Logger

	mu         sync.Mutex
	onLoaded   []func(*Carrier)
	onUnloaded []func(*Carrier)
}

// NewCarrier wraps a spawned transport group with cargo-carrying behavior
func NewCarrier(group shared.GroupHandle, set *Set, params Params, logger *slog.Logger) (*Carrier, error) {
	if group == nil {
		return nil, fmt.Errorf("carrier group cannot be nil")
	}
	if set == nil {
		return nil, fmt.Errorf("carrier cargo set cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Carrier{
		group:  group,
		set:    set,
		params: params,
		logger: logger.With("carrier", group.Name(), "cargo", set.Name()),
	}

	def := librefsm.NewDefinition().
		State(StateIdle).
		State(StateBoarding).
		State(StateLoaded, librefsm.WithOnEnter(c.fireLoaded)).
		State(StateEnRoute).
		State(StateUnloading).
		FinalState(StateUnloaded, librefsm.WithOnEnter(c.fireUnloaded)).
		Transition(StateIdle, eventBoard, StateBoarding).
		Transition(StateBoarding, eventLoaded, StateLoaded).
		Transition(StateLoaded, eventDeploy, StateEnRoute).
		Transition(StateEnRoute, eventUnload, StateUnloading).
		Transition(StateUnloading, eventUnloaded, StateUnloaded).
		Initial(StateIdle)

	machine, err := def.Build(librefsm.WithLogger(c.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build carrier machine: %w", err)
	}
	c.machine = machine

	return c, nil
}

// Start begins processing carrier events
func (c *Carrier) Start(ctx context.Context) error {
	return c.machine.Start(ctx)
}

// Stop shuts the carrier machine down
func (c *Carrier) Stop() error {
	return c.machine.Stop()
}

// Group returns the transport group this carrier wraps
func (c *Carrier) Group() shared.GroupHandle { return c.group }

// CargoSet returns the cargo set bound to this carrier
func (c *Carrier) CargoSet() *Set { return c.set }

// Params returns the mode-specific cargo behavior parameters
func (c *Carrier) Params() Params { return c.params }

// State returns the carrier's current state
func (c *Carrier) State() librefsm.StateID {
	return c.machine.CurrentState()
}

// OnLoaded registers a callback invoked once all cargo is aboard.
// Callbacks are a registered table, not per-instance function patching;
// registration order is invocation order.
func (c *Carrier) OnLoaded(fn func(*Carrier)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onLoaded = append(c.onLoaded, fn)
}

// OnUnloaded registers a callback invoked once all cargo is on the ground
// at the destination
func (c *Carrier) OnUnloaded(fn func(*Carrier)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnloaded = append(c.onUnloaded, fn)
}

// InLoadRange reports whether the carrier is close enough to the pickup
// point for boarding to begin
func (c *Carrier) InLoadRange() bool {
	return c.group.Coordinate().DistanceTo(c.params.Pickup) <= c.params.LoadRadius
}

// Board starts the boarding sequence
func (c *Carrier) Board() {
	c.machine.Send(librefsm.Event{ID: eventBoard})
}

// NotifyLoaded signals that the engine finished loading all cargo aboard
func (c *Carrier) NotifyLoaded() {
	c.machine.Send(librefsm.Event{ID: eventLoaded})
}

// Deploy sends the loaded carrier toward its destination
func (c *Carrier) Deploy() {
	c.machine.Send(librefsm.Event{ID: eventDeploy})
}

// NotifyArrived signals arrival at the destination and begins unloading
func (c *Carrier) NotifyArrived() {
	c.machine.Send(librefsm.Event{ID: eventUnload})
}

// NotifyUnloaded signals that the engine finished unloading all cargo
func (c *Carrier) NotifyUnloaded() {
	c.machine.Send(librefsm.Event{ID: eventUnloaded})
}

func (c *Carrier) fireLoaded(ctx *librefsm.Context) error {
	c.logger.Info("cargo loaded")
	c.mu.Lock()
	callbacks := append([]func(*Carrier){}, c.onLoaded...)
	c.mu.Unlock()
	for _, fn := range callbacks {
		fn(c)
	}
	return nil
}

func (c *Carrier) fireUnloaded(ctx *librefsm.Context) error {
	c.logger.Info("cargo unloaded")
	c.mu.Lock()
	callbacks := append([]func(*Carrier){}, c.onUnloaded...)
	c.mu.Unlock()
	for _, fn := range callbacks {
		fn(c)
	}
	return nil
}
