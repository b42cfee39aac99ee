package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	plandatamodel "github.com/frahmantamala/plan-checkout/internal/core/datamodel/plan"
	planpostgres "github.com/frahmantamala/plan-checkout/internal/plan/postgres"
)

var seedGatewayEndpoint string

// samplePlans carry no credentials; the gateway.* fallback supplies them.
func samplePlans(endpoint string) []plandatamodel.PricingPlan {
	return []plandatamodel.PricingPlan{
		{ID: "basic-monthly", Name: "Basic", Price: "9.90 USD", GatewayAPIEndpoint: endpoint, GatewayHTTPMethod: "POST"},
		{ID: "pro-monthly", Name: "Pro Monthly", Price: "49.90 USD", GatewayAPIEndpoint: endpoint, GatewayHTTPMethod: "POST"},
		{ID: "team-yearly", Name: "Team Yearly", Price: "$499.00", GatewayAPIEndpoint: endpoint, GatewayHTTPMethod: "POST"},
	}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample pricing plans",
	Long:  `Insert or refresh sample pricing plans for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Database.Validate(); err != nil {
			return fmt.Errorf("database config: %w", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		plans := samplePlans(seedGatewayEndpoint)
		if err := planpostgres.UpsertPlans(context.Background(), db, plans); err != nil {
			return err
		}

		for _, p := range plans {
			fmt.Printf("Seeded pricing plan: %s (%s)\n", p.ID, p.Price)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedGatewayEndpoint, "gateway-endpoint", "https://sandbox.dlocal.com", "gateway endpoint stored on the sample plans")
}
