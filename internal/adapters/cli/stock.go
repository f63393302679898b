package cli

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/skyquarter/airlift/internal/adapters/simulator"
	"github.com/skyquarter/airlift/internal/application/common"
	"github.com/skyquarter/airlift/internal/application/logistics"
	"github.com/skyquarter/airlift/internal/domain/asset"
	"github.com/skyquarter/airlift/internal/domain/shared"
	"github.com/skyquarter/airlift/internal/domain/warehouse"
	"github.com/skyquarter/airlift/internal/infrastructure/config"
	"github.com/skyquarter/airlift/internal/infrastructure/logging"
)

// NewStockCommand creates the census command. It stocks the configured
// warehouses in-process and prints what each would hold at mission start.
func NewStockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stock",
		Short: "Print the configured starting census of every warehouse",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg.Logging.Level = "error"
			logger := logging.New(cfg.Logging)

			engine := simulator.NewEngine(engineConfig(cfg), simulator.DefaultCatalog(), logger)

			registry := logistics.NewWarehouseRegistry()
			mediator := common.NewMediator()
			if err := logistics.RegisterHandlers(mediator, registry); err != nil {
				return err
			}

			for _, spec := range cfg.Mission.Warehouses {
				w, err := warehouse.New(
					warehouse.Config{
						Name:       spec.Name,
						Coalition:  spec.Coalition,
						Coordinate: shared.Coordinate{X: spec.X, Z: spec.Z},
					},
					warehouse.Deps{
						Catalog:   simulator.DefaultCatalog(),
						Spawner:   engine,
						Router:    engine,
						Messenger: engine,
						Logger:    logger,
					},
				)
				if err != nil {
					return err
				}
				if err := registry.Add(w); err != nil {
					return err
				}
				for _, a := range spec.Assets {
					if _, err := mediator.Send(cmd.Context(), logistics.AddAssetCommand{
						Warehouse:    spec.Name,
						TemplateName: a.Template,
						Count:        a.Count,
					}); err != nil {
						return err
					}
				}
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WAREHOUSE\tATTRIBUTE\tCOUNT")
			for _, spec := range cfg.Mission.Warehouses {
				result, err := mediator.Send(cmd.Context(), logistics.GetStockInfoQuery{Warehouse: spec.Name})
				if err != nil {
					return err
				}
				info, ok := result.(logistics.GetStockInfoResult)
				if !ok {
					return fmt.Errorf("unexpected result %T", result)
				}

				attrs := make([]string, 0, len(info.Census))
				for attr := range info.Census {
					attrs = append(attrs, string(attr))
				}
				sort.Strings(attrs)
				for _, attr := range attrs {
					fmt.Fprintf(tw, "%s\t%s\t%d\n", spec.Name, attr, info.Census[asset.Attribute(attr)])
				}
				fmt.Fprintf(tw, "%s\ttotal\t%d\n", spec.Name, info.Total)
			}
			return tw.Flush()
		},
	}
}
