package tasking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/librescoot/librefsm"

	"github.com/skyquarter/airlift/internal/domain/cargo"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/pkg/utils"
)

// Process states. WaitingForCommand is the hub: every completed leg funnels
// back into it, and every player command leaves from it.
const (
	StatePlanned           librefsm.StateID = "PLANNED"
	StateWaitingForCommand librefsm.StateID = "WAITING_FOR_COMMAND"
	StateRouteToPickup     librefsm.StateID = "ROUTE_TO_PICKUP"
	StateRoutingToPickup   librefsm.StateID = "ROUTING_TO_PICKUP"
	StateArrivedAtPickup   librefsm.StateID = "ARRIVED_AT_PICKUP"
	StateLanding           librefsm.StateID = "LANDING"
	StateLanded            librefsm.StateID = "LANDED"
	StatePrepareBoarding   librefsm.StateID = "PREPARE_BOARDING"
	StateBoarding          librefsm.StateID = "BOARDING"
	StateBoarded           librefsm.StateID = "BOARDED"
	StateRouteToDeploy     librefsm.StateID = "ROUTE_TO_DEPLOY"
	StateRoutingToDeploy   librefsm.StateID = "ROUTING_TO_DEPLOY"
	StateArrivedAtDeploy   librefsm.StateID = "ARRIVED_AT_DEPLOY"
	StatePrepareUnBoarding librefsm.StateID = "PREPARE_UNBOARDING"
	StateUnBoarding        librefsm.StateID = "UNBOARDING"
	StateUnBoarded         librefsm.StateID = "UNBOARDED"
	StateSuccess           librefsm.StateID = "SUCCESS"
	StateAborted           librefsm.StateID = "ABORTED"
	StateFailed            librefsm.StateID = "FAILED"
)

// Process events
const (
	eventAccept        librefsm.EventID = "accept"
	eventReject        librefsm.EventID = "reject"
	eventAbandon       librefsm.EventID = "abandon"
	eventRoutePickup   librefsm.EventID = "cmd_route_pickup"
	eventPickup        librefsm.EventID = "cmd_pickup"
	eventRouteZone     librefsm.EventID = "cmd_route_zone"
	eventDeploy        librefsm.EventID = "cmd_deploy"
	eventArrived       librefsm.EventID = "arrived"
	eventLanded        librefsm.EventID = "landed"
	eventCargoLoaded   librefsm.EventID = "cargo_loaded"
	eventCargoUnloaded librefsm.EventID = "cargo_unloaded"
)

// legPhase remembers which kind of leg the unit is flying, so the landing
// re-check knows where to re-route on overshoot
type legPhase int

const (
	phasePickup legPhase = iota
	phaseDeploy
)

// Params tunes one process's range checks
type Params struct {
	// LoadRadius is the pickup range in meters
	LoadRadius float64

	// DeployRadius is the unload range around a deploy zone center
	DeployRadius float64
}

func (p *Params) applyDefaults() {
	if p.LoadRadius <= 0 {
		p.LoadRadius = 500
	}
	if p.DeployRadius <= 0 {
		p.DeployRadius = 500
	}
}

// Deps bundles the collaborator ports a process consumes. Routing legs go
// through the hauler rather than the plain router because the process needs
// the arrival callback.
type Deps struct {
	Hauler shared.CargoHauler
	Menu   MenuService
	Logger *slog.Logger
}

// Process is the per-carrier-unit cargo tasking state machine. One instance
// exists per assigned human- or AI-controlled unit per mission task. Player
// choice arrives as Commands on an inbound channel; the host engine's
// arrival, landing and load/unload completions arrive as notify calls.
type Process struct {
	id   string
	unit shared.GroupHandle

	params Params
	deps   Deps

	mu          sync.Mutex
	cargoes     map[string]*cargo.Set
	loaded      map[string]bool
	deployZones map[string]shared.Zone

	// transient per-leg routing state, owned by the machine loop
	targetCargo string
	targetZone  string
	target      shared.Coordinate
	phase       legPhase
	resume      librefsm.StateID

	machine  *librefsm.Machine
	commands chan Command
	finished atomic.Bool
	logger   *slog.Logger
}

// NewProcess instantiates the tasking machine for one assigned carrier unit
func NewProcess(unit shared.GroupHandle, params Params, deps Deps) (*Process, error) {
	if unit == nil {
		return nil, fmt.Errorf("tasking process needs an assigned unit")
	}
	if deps.Hauler == nil || deps.Menu == nil {
		return nil, fmt.Errorf("tasking process for %s is missing a required collaborator", unit.Name())
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	params.applyDefaults()

	p := &Process{
		id:          utils.HandleID("task", unit.Name()),
		unit:        unit,
		params:      params,
		deps:        deps,
		cargoes:     make(map[string]*cargo.Set),
		loaded:      make(map[string]bool),
		deployZones: make(map[string]shared.Zone),
		commands:    make(chan Command, 16),
	}
	p.logger = deps.Logger.With("task", p.id)

	def := librefsm.NewDefinition().
		State(StatePlanned).
		State(StateWaitingForCommand,
			librefsm.WithOnEnter(p.rebuildMenu),
			librefsm.WithOnExit(p.teardownMenu)).
		JunctionState(StateRouteToPickup, p.routeToPickupLeg).
		State(StateRoutingToPickup).
		ConditionState(StateArrivedAtPickup, p.checkLandingNeeded).
		State(StateLanding, librefsm.WithOnEnter(p.issueLand)).
		ConditionState(StateLanded, p.checkLandedInRange).
		JunctionState(StatePrepareBoarding, p.beginBoarding).
		State(StateBoarding).
		ConditionState(StateBoarded, p.finishBoarding).
		JunctionState(StateRouteToDeploy, p.routeToDeployLeg).
		State(StateRoutingToDeploy).
		ConditionState(StateArrivedAtDeploy, p.checkLandingNeeded).
		JunctionState(StatePrepareUnBoarding, p.beginUnBoarding).
		State(StateUnBoarding).
		ConditionState(StateUnBoarded, p.finishUnBoarding).
		FinalState(StateSuccess).
		FinalState(StateAborted).
		FinalState(StateFailed).
		Transition(StatePlanned, eventAccept, StateWaitingForCommand).
		Transition(StatePlanned, eventReject, StateAborted).
		AnyStateTransition(eventAbandon, StateFailed,
			librefsm.WithGuard(p.guardNotFinished)).
		Transition(StateWaitingForCommand, eventRoutePickup, StateRouteToPickup,
			librefsm.WithGuard(p.guardCargoKnown), librefsm.WithAction(p.recordPickupTarget)).
		Transition(StateWaitingForCommand, eventPickup, StatePrepareBoarding,
			librefsm.WithGuard(p.guardPickupInRange), librefsm.WithAction(p.recordPickupTarget)).
		Transition(StateWaitingForCommand, eventRouteZone, StateRouteToDeploy,
			librefsm.WithGuard(p.guardZoneKnown), librefsm.WithAction(p.recordDeployTarget)).
		Transition(StateWaitingForCommand, eventDeploy, StatePrepareUnBoarding,
			librefsm.WithGuard(p.guardDeployInRange), librefsm.WithAction(p.recordDeployTarget)).
		Transition(StateRoutingToPickup, eventArrived, StateArrivedAtPickup).
		Transition(StateRoutingToDeploy, eventArrived, StateArrivedAtDeploy).
		Transition(StateLanding, eventLanded, StateLanded).
		Transition(StateBoarding, eventCargoLoaded, StateBoarded).
		Transition(StateUnBoarding, eventCargoUnloaded, StateUnBoarded).
		Initial(StatePlanned)

	machine, err := def.Build(librefsm.WithLogger(p.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build tasking machine: %w", err)
	}
	machine.OnStateChange(func(from, to librefsm.StateID) {
		switch to {
		case StateSuccess, StateAborted, StateFailed:
			p.finished.Store(true)
		}
	})
	p.machine = machine

	return p, nil
}

// ID returns the process's unique identifier
func (p *Process) ID() string { return p.id }

// Unit returns the assigned carrier unit
func (p *Process) Unit() shared.GroupHandle { return p.unit }

// State returns the machine's current state
func (p *Process) State() librefsm.StateID { return p.machine.CurrentState() }

// Start runs the machine and the inbound command pump
func (p *Process) Start(ctx context.Context) error {
	if err := p.machine.Start(ctx); err != nil {
		return fmt.Errorf("failed to start tasking process %s: %w", p.id, err)
	}
	go p.pumpCommands(ctx)
	return nil
}

// Stop shuts the machine down
func (p *Process) Stop() error {
	return p.machine.Stop()
}

// AddCargo places a cargo set in scope for this task
func (p *Process) AddCargo(set *cargo.Set) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cargoes[set.Name()] = set
}

// AddDeployZone registers a deploy zone candidate under a name
func (p *Process) AddDeployZone(name string, zone shared.Zone) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deployZones[name] = zone
}

// RemoveDeployZone withdraws a deploy zone candidate. No-op if unknown.
func (p *Process) RemoveDeployZone(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.deployZones, name)
}

// Accept takes the assignment and enters the command hub
func (p *Process) Accept() error {
	return p.machine.SendSync(librefsm.Event{ID: eventAccept})
}

// Reject declines the assignment; the process terminates as Aborted
func (p *Process) Reject() error {
	return p.machine.SendSync(librefsm.Event{ID: eventReject})
}

// Abandon marks the task failed from whatever state it is in
func (p *Process) Abandon() error {
	return p.machine.SendSync(librefsm.Event{ID: eventAbandon})
}

// Submit pushes a player command onto the inbound channel. Fire-and-forget;
// a full queue drops the command with a warning, matching menu behavior
// where a spammed selection simply does nothing.
func (p *Process) Submit(cmd Command) {
	select {
	case p.commands <- cmd:
	default:
		p.logger.Warn("command queue full, dropping command", "command", cmd.String())
	}
}

// Handle processes one command synchronously. Used by the command pump and
// directly by tests that need deterministic ordering.
func (p *Process) Handle(cmd Command) error {
	event, ok := commandEvent(cmd)
	if !ok {
		p.logger.Warn("unknown command ignored", "command", cmd.String())
		return nil
	}
	return p.machine.SendSync(librefsm.Event{ID: event, Payload: cmd})
}

// NotifyArrived reports that the engine completed the current routing leg
func (p *Process) NotifyArrived() {
	p.machine.Send(librefsm.Event{ID: eventArrived})
}

// NotifyLanded reports that the carrier unit touched down
func (p *Process) NotifyLanded() {
	p.machine.Send(librefsm.Event{ID: eventLanded})
}

func commandEvent(cmd Command) (librefsm.EventID, bool) {
	switch cmd.Kind {
	case CommandRouteToPickup:
		return eventRoutePickup, true
	case CommandPickup:
		return eventPickup, true
	case CommandRouteToZone:
		return eventRouteZone, true
	case CommandDeploy:
		return eventDeploy, true
	case CommandAbandon:
		return eventAbandon, true
	}
	return "", false
}

func (p *Process) pumpCommands(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-p.commands:
			if err := p.Handle(cmd); err != nil {
				p.logger.Error("command processing failed", "command", cmd.String(), "error", err)
			}
		}
	}
}

// Menu construction. Rebuilt on every entry into the command hub, torn down
// on every exit: the menu is how player choice becomes the next event.

func (p *Process) rebuildMenu(ctx *librefsm.Context) error {
	p.deps.Menu.SetMenu(p.unit.Name(), p.MenuItems())
	return nil
}

func (p *Process) teardownMenu(ctx *librefsm.Context) error {
	p.deps.Menu.ClearMenu(p.unit.Name())
	return nil
}

// MenuItems computes the currently offered commands: pickup or route-to for
// each cargo in scope, deploy or route-to per registered zone for each
// loaded cargo.
func (p *Process) MenuItems() []MenuItem {
	p.mu.Lock()
	defer p.mu.Unlock()

	var items []MenuItem
	at := p.unit.Coordinate()

	for name, set := range p.cargoes {
		if p.loaded[name] {
			continue
		}
		if at.DistanceTo(p.cargoCoordinate(set)) <= p.params.LoadRadius {
			items = append(items, MenuItem{
				Label:   fmt.Sprintf("Pickup %s", name),
				Command: Command{Kind: CommandPickup, Cargo: name},
			})
		} else {
			items = append(items, MenuItem{
				Label:   fmt.Sprintf("Route to %s", name),
				Command: Command{Kind: CommandRouteToPickup, Cargo: name},
			})
		}
	}

	for name := range p.cargoes {
		if !p.loaded[name] {
			continue
		}
		for zoneName, zone := range p.deployZones {
			if at.DistanceTo(zone.Center) <= p.params.DeployRadius {
				items = append(items, MenuItem{
					Label:   fmt.Sprintf("Deploy %s at %s", name, zoneName),
					Command: Command{Kind: CommandDeploy, Cargo: name, Zone: zoneName},
				})
			} else {
				items = append(items, MenuItem{
					Label:   fmt.Sprintf("Route to %s", zoneName),
					Command: Command{Kind: CommandRouteToZone, Cargo: name, Zone: zoneName},
				})
			}
		}
	}

	return items
}

// Guards: the menu only offers valid commands, but commands can go stale
// between rebuilds, so every transition re-validates.

// guardNotFinished keeps the any-state abandon from resurrecting a task
// that already reached a terminal state. Reads the mirrored state flag
// because machine methods cannot be called from inside a guard.
func (p *Process) guardNotFinished(ctx *librefsm.Context) bool {
	return !p.finished.Load()
}

func (p *Process) guardCargoKnown(ctx *librefsm.Context) bool {
	cmd := ctx.Event.Payload.(Command)
	_, ok := p.lookupCargo(cmd.Cargo)
	if !ok {
		p.logger.Warn("command for unknown cargo ignored", "command", cmd.String())
	}
	return ok
}

func (p *Process) guardPickupInRange(ctx *librefsm.Context) bool {
	cmd := ctx.Event.Payload.(Command)
	set, ok := p.lookupCargo(cmd.Cargo)
	if !ok {
		return false
	}
	return p.unit.Coordinate().DistanceTo(p.cargoCoordinate(set)) <= p.params.LoadRadius
}

func (p *Process) guardZoneKnown(ctx *librefsm.Context) bool {
	cmd := ctx.Event.Payload.(Command)
	if _, ok := p.lookupCargo(cmd.Cargo); !ok {
		return false
	}
	_, ok := p.lookupZone(cmd.Zone)
	if !ok {
		p.logger.Warn("command for unknown deploy zone ignored", "command", cmd.String())
	}
	return ok
}

func (p *Process) guardDeployInRange(ctx *librefsm.Context) bool {
	cmd := ctx.Event.Payload.(Command)
	p.mu.Lock()
	isLoaded := p.loaded[cmd.Cargo]
	p.mu.Unlock()
	if !isLoaded {
		return false
	}
	zone, ok := p.lookupZone(cmd.Zone)
	if !ok {
		return false
	}
	return p.unit.Coordinate().DistanceTo(zone.Center) <= p.params.DeployRadius
}

// Transition actions recording the current leg

func (p *Process) recordPickupTarget(ctx *librefsm.Context) error {
	cmd := ctx.Event.Payload.(Command)
	set, _ := p.lookupCargo(cmd.Cargo)
	p.targetCargo = cmd.Cargo
	p.target = p.cargoCoordinate(set)
	p.phase = phasePickup
	return nil
}

func (p *Process) recordDeployTarget(ctx *librefsm.Context) error {
	cmd := ctx.Event.Payload.(Command)
	zone, _ := p.lookupZone(cmd.Zone)
	p.targetCargo = cmd.Cargo
	p.targetZone = cmd.Zone
	p.target = zone.Center
	p.phase = phaseDeploy
	return nil
}

// Junction and condition logic

// routeToPickupLeg decides whether routing is needed at all: an in-range
// cargo skips straight to the arrival check without a routing leg.
func (p *Process) routeToPickupLeg(ctx *librefsm.Context) librefsm.StateID {
	if p.unit.Coordinate().DistanceTo(p.target) <= p.params.LoadRadius {
		return StateArrivedAtPickup
	}
	p.issueRouting(ctx)
	return StateRoutingToPickup
}

func (p *Process) routeToDeployLeg(ctx *librefsm.Context) librefsm.StateID {
	if p.unit.Coordinate().DistanceTo(p.target) <= p.params.DeployRadius {
		return StateArrivedAtDeploy
	}
	p.issueRouting(ctx)
	return StateRoutingToDeploy
}

func (p *Process) issueRouting(ctx *librefsm.Context) {
	mode := shared.RouteModeRoad
	if p.unit.IsAircraft() {
		mode = shared.RouteModeAir
	}
	p.deps.Hauler.HaulTo(context.Background(), p.unit, p.target, mode, p.NotifyArrived)
	p.logger.Info("routing leg issued", "to", p.target.String(), "phase", int(p.phase))
}

// checkLandingNeeded runs on arrival at either kind of target. Ground units
// and already-grounded aircraft go straight back to the command hub; an
// airborne aircraft has to land first.
func (p *Process) checkLandingNeeded(ctx *librefsm.Context) librefsm.StateID {
	if p.unit.IsAircraft() && p.unit.IsAirborne() {
		return StateLanding
	}
	return StateWaitingForCommand
}

func (p *Process) issueLand(ctx *librefsm.Context) error {
	p.deps.Hauler.Land(context.Background(), p.unit, p.NotifyLanded)
	return nil
}

// checkLandedInRange re-checks the target after touchdown. An overshoot far
// enough to leave range re-routes instead of proceeding. A landing that was
// triggered by a boarding or unboarding attempt resumes that junction.
func (p *Process) checkLandedInRange(ctx *librefsm.Context) librefsm.StateID {
	radius := p.params.LoadRadius
	if p.phase == phaseDeploy {
		radius = p.params.DeployRadius
	}
	resume := p.resume
	p.resume = ""
	if p.unit.Coordinate().DistanceTo(p.target) <= radius {
		if resume != "" {
			return resume
		}
		return StateWaitingForCommand
	}
	p.logger.Info("landed out of range, re-routing")
	if p.phase == phaseDeploy {
		return StateRouteToDeploy
	}
	return StateRouteToPickup
}

// Boarding delegates to the engine's load machinery; the process resumes
// only when the load completion comes back as a cargo_loaded event.
func (p *Process) beginBoarding(ctx *librefsm.Context) librefsm.StateID {
	set, ok := p.lookupCargo(p.targetCargo)
	if !ok {
		return StateWaitingForCommand
	}
	// An airborne aircraft lands first and comes back through this junction
	// once grounded.
	if p.unit.IsAircraft() && p.unit.IsAirborne() {
		p.resume = StatePrepareBoarding
		return StateLanding
	}
	names := make([]string, 0, set.Size())
	for _, member := range set.Members() {
		names = append(names, member.Name())
	}
	p.deps.Hauler.LoadCargo(context.Background(), p.unit, names, func() {
		p.machine.Send(librefsm.Event{ID: eventCargoLoaded})
	})
	return StateBoarding
}

func (p *Process) finishBoarding(ctx *librefsm.Context) librefsm.StateID {
	p.mu.Lock()
	p.loaded[p.targetCargo] = true
	p.mu.Unlock()
	p.logger.Info("cargo boarded", "cargo", p.targetCargo)
	return StateWaitingForCommand
}

func (p *Process) beginUnBoarding(ctx *librefsm.Context) librefsm.StateID {
	set, ok := p.lookupCargo(p.targetCargo)
	if !ok {
		return StateWaitingForCommand
	}
	if p.unit.IsAircraft() && p.unit.IsAirborne() {
		p.resume = StatePrepareUnBoarding
		return StateLanding
	}
	names := make([]string, 0, set.Size())
	for _, member := range set.Members() {
		names = append(names, member.Name())
	}
	p.deps.Hauler.UnloadCargo(context.Background(), p.unit, names, func() {
		p.machine.Send(librefsm.Event{ID: eventCargoUnloaded})
	})
	return StateUnBoarding
}

// finishUnBoarding retires the deployed cargo. When the last cargo in scope
// is deployed, the task completes.
func (p *Process) finishUnBoarding(ctx *librefsm.Context) librefsm.StateID {
	p.mu.Lock()
	delete(p.cargoes, p.targetCargo)
	delete(p.loaded, p.targetCargo)
	remaining := len(p.cargoes)
	p.mu.Unlock()

	p.logger.Info("cargo deployed", "cargo", p.targetCargo, "zone", p.targetZone, "remaining", remaining)
	if remaining == 0 {
		return StateSuccess
	}
	return StateWaitingForCommand
}

// Lookup helpers

func (p *Process) lookupCargo(name string) (*cargo.Set, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.cargoes[name]
	return set, ok
}

func (p *Process) lookupZone(name string) (shared.Zone, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	zone, ok := p.deployZones[name]
	return zone, ok
}

// cargoCoordinate returns where the cargo waits, taken from its lead group
func (p *Process) cargoCoordinate(set *cargo.Set) shared.Coordinate {
	if set == nil {
		return shared.Coordinate{}
	}
	members := set.Members()
	if len(members) == 0 {
		return shared.Coordinate{}
	}
	return members[0].Coordinate()
}
