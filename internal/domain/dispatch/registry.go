package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/warehouse"
)

// Config tunes the supported transport modes
type Config struct {
	Airplane   ModeParams
	Helicopter ModeParams
	APC        ModeParams
}

// DefaultConfig returns the stock cargo handling radii per mode
func DefaultConfig() Config {
	return Config{
		Airplane:   ModeParams{LoadRadius: 500, NearRadius: 500, DeployDelay: 10 * time.Second},
		Helicopter: ModeParams{LoadRadius: 500, NearRadius: 90, DeployDelay: 10 * time.Second},
		APC:        ModeParams{LoadRadius: 250, NearRadius: 25, DeployDelay: 10 * time.Second},
	}
}

// Registry selects the delivery strategy for a granted request's transport
// mode. Train and ship transport have no strategy: a request that reaches
// the registry with one of those modes is logged and dropped, leaving its
// spawned cargo where it stands.
type Registry struct {
	strategies map[warehouse.TransportType]warehouse.Dispatcher
	logger     *slog.Logger
}

// NewRegistry builds the dispatch registry with one strategy per supported mode
func NewRegistry(deps Deps, cfg Config) *Registry {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Registry{
		logger: deps.Logger,
		strategies: map[warehouse.TransportType]warehouse.Dispatcher{
			warehouse.TransportAirplane: &strategy{
				deps:        deps,
				mode:        warehouse.TransportAirplane,
				params:      cfg.Airplane,
				routeMode:   shared.RouteModeAir,
				spawnAt:     spawnAtHome,
				destination: destinationCenter,
			},
			warehouse.TransportHelicopter: &strategy{
				deps:        deps,
				mode:        warehouse.TransportHelicopter,
				params:      cfg.Helicopter,
				routeMode:   shared.RouteModeAir,
				spawnAt:     spawnAtHome,
				destination: destinationCenter,
			},
			warehouse.TransportAPC: &strategy{
				deps:        deps,
				mode:        warehouse.TransportAPC,
				params:      cfg.APC,
				routeMode:   shared.RouteModeRoad,
				spawnAt:     spawnInZone,
				destination: destinationInZone,
			},
		},
	}
}

// Dispatch implements warehouse.Dispatcher by mode lookup
func (r *Registry) Dispatch(ctx context.Context, order warehouse.DispatchOrder) error {
	s, ok := r.strategies[order.Mode]
	if !ok {
		r.logger.Error("transport mode not supported, cargo stranded",
			"mode", string(order.Mode), "cargo", order.Cargo.Name())
		return fmt.Errorf("transport mode %s not supported", order.Mode)
	}
	return s.Dispatch(ctx, order)
}
