package warehouse

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/librescoot/librefsm"

	"github.com/skyquarter/airlift/internal/domain/asset"
	"github.com/skyquarter/airlift/internal/domain/cargo"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/pkg/utils"
)

// Warehouse states
const (
	StateStopped librefsm.StateID = "STOPPED"
	StateRunning librefsm.StateID = "RUNNING"
)

// Warehouse events. Status, request and delivered are self-transitions on
// RUNNING: they carry handlers, not state changes.
const (
	eventStart     librefsm.EventID = "start"
	eventStop      librefsm.EventID = "stop"
	eventStatus    librefsm.EventID = "status"
	eventRequest   librefsm.EventID = "request"
	eventDelivered librefsm.EventID = "delivered"
)

const statusTimerName = "status"

// Config holds the static identity of one warehouse
type Config struct {
	// Name is the warehouse's location name, typically its airbase
	Name string

	// Coalition owning the warehouse
	Coalition string

	// Coordinate of the warehouse structure itself
	Coordinate shared.Coordinate

	// MarkerID is the map marker updated by status reports
	MarkerID int

	// SpawnZoneRadius around the nearest road point, in meters
	SpawnZoneRadius float64

	// StatusDelay before the first status report
	StatusDelay time.Duration

	// StatusInterval between recurring status reports
	StatusInterval time.Duration
}

func (c *Config) applyDefaults() {
	if c.SpawnZoneRadius <= 0 {
		c.SpawnZoneRadius = 200
	}
	if c.StatusDelay <= 0 {
		c.StatusDelay = 5 * time.Second
	}
	if c.StatusInterval <= 0 {
		c.StatusInterval = 30 * time.Second
	}
}

// Deps bundles the collaborator ports a warehouse consumes. Recorder may be
// nil; everything else is required.
type Deps struct {
	Catalog    asset.TemplateCatalog
	Spawner    shared.Spawner
	Router     shared.Router
	Messenger  shared.Messenger
	Dispatcher Dispatcher
	Recorder   MovementRecorder
	Clock      shared.Clock
	Logger     *slog.Logger
	Rand       *rand.Rand
}

// Warehouse manages an asset inventory at one location and fulfills requests
// for those assets through a request-fulfillment state machine.
//
// Invariants:
// - Asset ids are strictly increasing and never reused
// - The spawn zone is computed once at construction and immutable
// - No error condition ever propagates out of the machine; denials and
//   failures degrade to a log line or a coalition message
type Warehouse struct {
	cfg       Config
	spawnZone shared.Zone

	inventory   *asset.Inventory
	nextAssetID int64

	catalog    asset.TemplateCatalog
	spawner    shared.Spawner
	router     shared.Router
	messenger  shared.Messenger
	dispatcher Dispatcher
	recorder   MovementRecorder
	clock      shared.Clock
	rng        *rand.Rand

	machine *librefsm.Machine
	logger  *slog.Logger
}

// New creates a warehouse at the given location. The spawn zone is staged
// around the nearest road point so ground assets materialize somewhere they
// can actually drive away from.
func New(cfg Config, deps Deps) (*Warehouse, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("warehouse name cannot be empty")
	}
	if cfg.Coalition == "" {
		return nil, fmt.Errorf("warehouse coalition cannot be empty")
	}
	if deps.Catalog == nil || deps.Spawner == nil || deps.Router == nil || deps.Messenger == nil {
		return nil, fmt.Errorf("warehouse %s is missing a required collaborator", cfg.Name)
	}
	cfg.applyDefaults()

	if deps.Clock == nil {
		deps.Clock = shared.NewRealClock()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(deps.Clock.Now().UnixNano()))
	}

	road := deps.Router.NearestRoad(cfg.Coordinate)
	spawnZone, err := shared.NewZone(cfg.Name+" staging", road, cfg.SpawnZoneRadius)
	if err != nil {
		return nil, fmt.Errorf("failed to build spawn zone: %w", err)
	}

	w := &Warehouse{
		cfg:        cfg,
		spawnZone:  spawnZone,
		inventory:  asset.NewInventory(),
		catalog:    deps.Catalog,
		spawner:    deps.Spawner,
		router:     deps.Router,
		messenger:  deps.Messenger,
		dispatcher: deps.Dispatcher,
		recorder:   deps.Recorder,
		clock:      deps.Clock,
		rng:        deps.Rand,
		logger:     deps.Logger.With("warehouse", cfg.Name),
	}

	def := librefsm.NewDefinition().
		State(StateStopped).
		State(StateRunning).
		Transition(StateStopped, eventStart, StateRunning, librefsm.WithAction(w.handleStart)).
		Transition(StateRunning, eventStatus, StateRunning, librefsm.WithAction(w.handleStatus)).
		Transition(StateRunning, eventRequest, StateRunning,
			librefsm.WithGuard(w.guardRequest),
			librefsm.WithAction(w.handleRequest)).
		Transition(StateRunning, eventDelivered, StateRunning, librefsm.WithAction(w.handleDelivered)).
		Transition(StateRunning, eventStop, StateStopped, librefsm.WithAction(w.handleStop)).
		Initial(StateStopped)

	machine, err := def.Build(librefsm.WithLogger(w.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build warehouse machine: %w", err)
	}
	w.machine = machine

	return w, nil
}

// Name returns the warehouse's location name
func (w *Warehouse) Name() string { return w.cfg.Name }

// Coalition returns the owning coalition
func (w *Warehouse) Coalition() string { return w.cfg.Coalition }

// SpawnZone returns the immutable staging zone
func (w *Warehouse) SpawnZone() shared.Zone { return w.spawnZone }

// State returns the machine's current state
func (w *Warehouse) State() librefsm.StateID { return w.machine.CurrentState() }

// StockInfo returns the full attribute census, zero counts included
func (w *Warehouse) StockInfo() map[asset.Attribute]int {
	return w.inventory.Census()
}

// StockCount returns the total number of items held
func (w *Warehouse) StockCount() int { return w.inventory.Len() }

// FilterStock returns the stock matching a descriptor, in insertion order
func (w *Warehouse) FilterStock(d asset.Descriptor, value any) []*asset.StockItem {
	return w.inventory.Filter(d, value)
}

// Start brings the warehouse online and schedules the recurring status report
func (w *Warehouse) Start(ctx context.Context) error {
	if err := w.machine.Start(ctx); err != nil {
		return fmt.Errorf("failed to start warehouse %s: %w", w.cfg.Name, err)
	}
	return w.machine.SendSync(librefsm.Event{ID: eventStart})
}

// Stop takes the warehouse offline and shuts its machine down
func (w *Warehouse) Stop() error {
	if err := w.machine.SendSync(librefsm.Event{ID: eventStop}); err != nil {
		return err
	}
	return w.machine.Stop()
}

// AddAsset resolves the template once against the unit database, classifies
// it, and appends count stock items with fresh ids. An unresolvable template
// is logged and skipped; nothing propagates to the caller. The optional
// attribute override marks templates the mission designer wants treated as
// transport capacity regardless of their tags.
func (w *Warehouse) AddAsset(templateName string, count int, attrOverride ...asset.Attribute) {
	if count < 1 {
		count = 1
	}

	info, err := w.catalog.Resolve(templateName)
	if err != nil {
		w.logger.Error("cannot add asset, template not in unit database",
			"template", templateName, "error", err)
		return
	}

	attr := asset.Classify(info.Tags)
	if len(attrOverride) > 0 {
		attr = attrOverride[0]
	}

	for i := 0; i < count; i++ {
		w.nextAssetID++
		w.inventory.Add(&asset.StockItem{
			ID:           w.nextAssetID,
			TemplateName: templateName,
			Category:     info.Category,
			UnitType:     info.UnitType,
			Attribute:    attr,
		})
	}

	w.record(MovementAdd, templateName, attr, count)
	w.logger.Info("assets added to stock", "template", templateName, "count", count, "attribute", attr)
}

// Request submits an asset request and waits for the machine to process it.
// Denials are observable only as a coalition message; the caller gets no
// error either way.
func (w *Warehouse) Request(req Request) {
	req.normalize()
	if err := w.machine.SendSync(librefsm.Event{ID: eventRequest, Payload: &req}); err != nil {
		w.logger.Error("request processing failed", "request", req.String(), "error", err)
	}
}

// Delivered reports that a transport strategy unloaded the given group at
// its destination. Terminal for that group.
func (w *Warehouse) Delivered(group shared.GroupHandle) {
	w.machine.Send(librefsm.Event{ID: eventDelivered, Payload: group})
}

// Report formats the current stock census for the status broadcast
func (w *Warehouse) Report() string {
	return FormatStockReport(w.cfg.Name, w.inventory.Census())
}

// Transition handlers. All of them follow the never-crash-the-tick policy:
// anything that goes wrong is logged and the machine keeps running.

func (w *Warehouse) handleStart(ctx *librefsm.Context) error {
	w.logger.Info("warehouse online", "spawn_zone", w.spawnZone.String())
	ctx.StartTimerGlobal(statusTimerName, w.cfg.StatusDelay, librefsm.Event{ID: eventStatus})
	return nil
}

func (w *Warehouse) handleStop(ctx *librefsm.Context) error {
	ctx.StopTimer(statusTimerName)
	w.logger.Info("warehouse offline")
	return nil
}

func (w *Warehouse) handleStatus(ctx *librefsm.Context) error {
	report := w.Report()
	w.messenger.UpdateMarker(w.cfg.MarkerID, w.cfg.Coalition, report, w.cfg.Coordinate)
	w.messenger.BroadcastToCoalition(w.cfg.Coalition, report)
	ctx.StartTimerGlobal(statusTimerName, w.cfg.StatusInterval, librefsm.Event{ID: eventStatus})
	return nil
}

// guardRequest validates stock and transport availability. A failed guard
// suppresses the event: no state change, no inventory change, only a message.
func (w *Warehouse) guardRequest(ctx *librefsm.Context) bool {
	req, ok := ctx.Event.Payload.(*Request)
	if !ok {
		w.logger.Error("request event carried no request payload")
		return false
	}

	matching := w.inventory.Filter(req.Descriptor, req.Value)
	if len(matching) < req.Quantity {
		w.deny(req, fmt.Sprintf("insufficient stock: %d of %d available", len(matching), req.Quantity))
		return false
	}

	if req.Transport != TransportSelfPropelled {
		if attr, hasAttr := req.Transport.Attribute(); hasAttr {
			if len(w.inventory.Filter(asset.DescriptorAttribute, attr)) == 0 {
				w.deny(req, fmt.Sprintf("no %s transport available", req.Transport))
				return false
			}
		}
	}

	return true
}

func (w *Warehouse) deny(req *Request, reason string) {
	w.logger.Warn("request denied", "request", req.String(), "reason", reason)
	w.messenger.BroadcastToCoalition(w.cfg.Coalition,
		fmt.Sprintf("%s: request from %s denied, %s", w.cfg.Name, req.Origin, reason))
}

// handleRequest runs once the guard has passed: select, spawn, delete,
// dispatch. Stock is deleted immediately after spawning is issued rather
// than on confirmed delivery; a spawn that fails after that point loses the
// asset. That risk is accepted.
func (w *Warehouse) handleRequest(ctx *librefsm.Context) error {
	req := ctx.Event.Payload.(*Request)

	selected := w.inventory.Filter(req.Descriptor, req.Value)[:req.Quantity]

	spawned := make([]shared.GroupHandle, 0, len(selected))
	for _, item := range selected {
		at := w.spawnZone.RandomPoint(w.rng)
		group, err := w.spawner.Spawn(context.Background(), item.TemplateName, at)
		if err != nil {
			w.logger.Error("asset spawn failed, request abandoned for this item",
				"template", item.TemplateName, "error", err)
			continue
		}
		spawned = append(spawned, group)
	}
	for _, item := range selected {
		w.inventory.Delete(item.ID)
	}
	// One ledger row per distinct template; a category or unit-type request
	// can span several.
	counts := make(map[string]int)
	attrs := make(map[string]asset.Attribute)
	var templates []string
	for _, item := range selected {
		if _, seen := counts[item.TemplateName]; !seen {
			templates = append(templates, item.TemplateName)
			attrs[item.TemplateName] = item.Attribute
		}
		counts[item.TemplateName]++
	}
	for _, name := range templates {
		w.record(MovementIssue, name, attrs[name], counts[name])
	}

	if len(spawned) == 0 {
		w.logger.Error("no assets could be spawned, request abandoned", "request", req.String())
		return nil
	}

	set, err := cargo.NewSet(utils.HandleID("cargo", w.cfg.Name), spawned)
	if err != nil {
		w.logger.Error("failed to bind cargo set", "error", err)
		return nil
	}

	if req.Transport == TransportSelfPropelled {
		for _, group := range spawned {
			dest := req.Destination.RandomPoint(w.rng)
			if err := w.router.RouteTo(context.Background(), group, dest, group.MaxSpeed(), shared.RouteModeRoad); err != nil {
				w.logger.Error("failed to route self-propelled asset", "group", group.Name(), "error", err)
			}
		}
		w.logger.Info("request granted, assets rolling out under their own power",
			"request", req.String(), "cargo", set.Name())
		return nil
	}

	transports := []*asset.StockItem{}
	if attr, hasAttr := req.Transport.Attribute(); hasAttr {
		transports = w.inventory.Filter(asset.DescriptorAttribute, attr)
	}

	order := DispatchOrder{
		Mode:        req.Transport,
		Cargo:       set,
		Pickup:      w.spawnZone.Center,
		Destination: req.Destination,
		Home:        w.cfg.Coordinate,
		SpawnZone:   w.spawnZone,
		Transports:  transports,
		Consume: func(id int64) {
			if item := w.inventory.Filter(asset.DescriptorID, id); len(item) == 1 {
				w.inventory.Delete(id)
				w.record(MovementIssue, item[0].TemplateName, item[0].Attribute, 1)
			}
		},
		Delivered: w.Delivered,
	}

	if w.dispatcher == nil {
		w.logger.Error("no dispatcher wired, cargo stranded", "cargo", set.Name())
		return nil
	}
	if err := w.dispatcher.Dispatch(context.Background(), order); err != nil {
		w.logger.Error("transport dispatch failed, cargo stranded",
			"cargo", set.Name(), "mode", req.Transport, "error", err)
	}
	return nil
}

// handleDelivered routes a delivered group off the unload site toward the
// nearest road at half speed. No further machine involvement for that group.
func (w *Warehouse) handleDelivered(ctx *librefsm.Context) error {
	group, ok := ctx.Event.Payload.(shared.GroupHandle)
	if !ok {
		w.logger.Error("delivered event carried no group payload")
		return nil
	}

	road := w.router.NearestRoad(group.Coordinate())
	if err := w.router.RouteTo(context.Background(), group, road, group.MaxSpeed()/2, shared.RouteModeOffRoad); err != nil {
		w.logger.Error("failed to route delivered group off the unload site",
			"group", group.Name(), "error", err)
	}

	w.record(MovementDeliver, group.Name(), "", 1)
	w.messenger.BroadcastToCoalition(w.cfg.Coalition,
		fmt.Sprintf("%s: %s delivered", w.cfg.Name, group.Name()))
	return nil
}

func (w *Warehouse) record(kind MovementKind, template string, attr asset.Attribute, qty int) {
	if w.recorder == nil {
		return
	}
	m := Movement{
		Warehouse: w.cfg.Name,
		Kind:      kind,
		Template:  template,
		Attribute: attr,
		Quantity:  qty,
		At:        w.clock.Now(),
	}
	if err := w.recorder.RecordMovement(context.Background(), m); err != nil {
		w.logger.Warn("failed to record stock movement", "kind", kind, "error", err)
	}
}
