package warehouse

import (
	"context"
	"time"

	"github.com/skyquarter/airlift/internal/domain/asset"
	"github.com/skyquarter/airlift/internal/domain/cargo"
	"github.com/skyquarter/airlift/internal/domain/shared"
)

// DispatchOrder carries everything a transport strategy needs to move one
// cargo set to its destination. The transport stock candidates are passed in
// list order together with a Consume callback so the strategy can pick one at
// random and remove it from stock without ever touching the inventory
// directly.
type DispatchOrder struct {
	Mode        TransportType
	Cargo       *cargo.Set
	Pickup      shared.Coordinate
	Destination shared.Zone
	Home        shared.Coordinate
	SpawnZone   shared.Zone

	// Transport stock candidates in inventory order
	Transports []*asset.StockItem

	// Consume removes the chosen transport from the warehouse's stock
	Consume func(id int64)

	// Delivered reports one cargo group unloaded at the destination; the
	// warehouse routes it off the landing site and closes it out
	Delivered func(group shared.GroupHandle)
}

// Dispatcher is the per-transport-mode delivery strategy invoked once a
// request has been granted and its cargo spawned
type Dispatcher interface {
	Dispatch(ctx context.Context, order DispatchOrder) error
}

// MovementKind classifies a ledger entry
type MovementKind string

const (
	MovementAdd     MovementKind = "ADD"
	MovementIssue   MovementKind = "ISSUE"
	MovementDeliver MovementKind = "DELIVER"
)

// Movement is one row in the warehouse movement ledger
type Movement struct {
	Warehouse string
	Kind      MovementKind
	Template  string
	Attribute asset.Attribute
	Quantity  int
	At        time.Time
}

// MovementRecorder persists stock movements for after-action reporting.
// Recording is best-effort: failures are logged, never escalated.
type MovementRecorder interface {
	RecordMovement(ctx context.Context, m Movement) error
}
