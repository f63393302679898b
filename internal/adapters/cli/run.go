package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/skyquarter/airlift/internal/adapters/persistence"
	"github.com/skyquarter/airlift/internal/adapters/simulator"
	"github.com/skyquarter/airlift/internal/application/common"
	"github.com/skyquarter/airlift/internal/application/logistics"
	"github.com/skyquarter/airlift/internal/domain/dispatch"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/warehouse"
	"github.com/skyquarter/airlift/internal/infrastructure/config"
	"github.com/skyquarter/airlift/internal/infrastructure/database"
	"github.com/skyquarter/airlift/internal/infrastructure/logging"
)

// NewRunCommand creates the mission runner command
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the configured mission until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMission(cmd.Context())
		},
	}
}

func runMission(ctx context.Context) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger := logging.New(cfg.Logging)
	ctx = common.WithLogger(ctx, logger)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer database.Close(db)
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	recorder := persistence.NewGormMovementRepository(db, nil)

	engine := simulator.NewEngine(engineConfig(cfg), simulator.DefaultCatalog(), logger)

	dispatcher := dispatch.NewRegistry(
		dispatch.Deps{Spawner: engine, Hauler: engine, Logger: logger},
		dispatchConfig(cfg),
	)

	registry := logistics.NewWarehouseRegistry()
	mediator := common.NewMediator()
	if err := logistics.RegisterHandlers(mediator, registry); err != nil {
		return err
	}

	for _, spec := range cfg.Mission.Warehouses {
		w, err := warehouse.New(
			warehouse.Config{
				Name:            spec.Name,
				Coalition:       spec.Coalition,
				Coordinate:      shared.Coordinate{X: spec.X, Z: spec.Z},
				MarkerID:        spec.MarkerID,
				SpawnZoneRadius: cfg.Logistic.Warehouse.SpawnZoneRadius,
				StatusDelay:     cfg.Logistic.Warehouse.StatusDelay,
				StatusInterval:  cfg.Logistic.Warehouse.StatusInterval,
			},
			warehouse.Deps{
				Catalog:    simulator.DefaultCatalog(),
				Spawner:    engine,
				Router:     engine,
				Messenger:  engine,
				Dispatcher: dispatcher,
				Recorder:   recorder,
				Logger:     logger,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to create warehouse %s: %w", spec.Name, err)
		}
		if err := registry.Add(w); err != nil {
			return err
		}
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("failed to start warehouse %s: %w", spec.Name, err)
		}

		for _, a := range spec.Assets {
			result, err := mediator.Send(ctx, logistics.AddAssetCommand{
				Warehouse:    spec.Name,
				TemplateName: a.Template,
				Count:        a.Count,
			})
			if err != nil {
				return err
			}
			if r, ok := result.(logistics.AddAssetResult); ok {
				logger.Info("warehouse stocked",
					"warehouse", spec.Name, "template", a.Template,
					"count", a.Count, "total", r.TotalStock)
			}
		}
	}

	if len(registry.All()) == 0 {
		logger.Warn("mission has no warehouses configured, nothing to do")
	}

	logger.Info("mission running, press Ctrl+C to stop")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	for _, w := range registry.All() {
		w.Stop()
	}
	return nil
}

func engineConfig(cfg *config.Config) simulator.EngineConfig {
	ec := simulator.DefaultEngineConfig()
	ec.TimeScale = cfg.Engine.TimeScale
	ec.LoadTime = cfg.Engine.LoadTime
	ec.UnloadTime = cfg.Engine.UnloadTime
	ec.LandTime = cfg.Engine.LandTime
	ec.BroadcastRate = rateLimit(cfg.Engine.BroadcastRate)
	ec.BroadcastBurst = cfg.Engine.BroadcastBurst
	return ec
}

func rateLimit(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Limit(2)
	}
	return rate.Limit(perSecond)
}

func dispatchConfig(cfg *config.Config) dispatch.Config {
	return dispatch.Config{
		Airplane:   modeParams(cfg.Logistic.Dispatch.Airplane),
		Helicopter: modeParams(cfg.Logistic.Dispatch.Helicopter),
		APC:        modeParams(cfg.Logistic.Dispatch.APC),
	}
}

func modeParams(mc config.ModeConfig) dispatch.ModeParams {
	return dispatch.ModeParams{
		LoadRadius:  mc.LoadRadius,
		NearRadius:  mc.NearRadius,
		DeployDelay: mc.DeployDelay,
	}
}
