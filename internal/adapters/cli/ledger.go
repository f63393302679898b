package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/skyquarter/airlift/internal/adapters/persistence"
	"github.com/skyquarter/airlift/internal/infrastructure/config"
	"github.com/skyquarter/airlift/internal/infrastructure/database"
)

// NewLedgerCommand creates the movement ledger query command
func NewLedgerCommand() *cobra.Command {
	var (
		warehouseName string
		limit         int
		sinceHours    int
	)

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show a warehouse's stock movement ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			if warehouseName == "" {
				return fmt.Errorf("--warehouse is required")
			}

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect database: %w", err)
			}
			defer database.Close(db)

			repo := persistence.NewGormMovementRepository(db, nil)

			movements, err := repo.Movements(cmd.Context(), warehouseName, limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tKIND\tTEMPLATE\tATTRIBUTE\tQTY")
			for _, m := range movements {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
					m.At.Format(time.RFC3339), m.Kind, m.Template, m.Attribute, m.Quantity)
			}
			w.Flush()

			if sinceHours > 0 {
				cutoff := time.Now().Add(-time.Duration(sinceHours) * time.Hour)
				issued, err := repo.IssuedSince(cmd.Context(), warehouseName, cutoff)
				if err != nil {
					return err
				}
				fmt.Printf("\nIssued in the last %dh: %d units\n", sinceHours, issued)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&warehouseName, "warehouse", "", "Warehouse location name")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show")
	cmd.Flags().IntVar(&sinceHours, "since", 0, "Also report units issued over the last N hours")

	return cmd
}
