package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	plandatamodel "github.com/frahmantamala/plan-checkout/internal/core/datamodel/plan"
)

const upsertPlanQuery = `
INSERT INTO pricing_plans (
	id, name, price,
	gateway_api_endpoint, gateway_http_method, gateway_api_key, gateway_secret_key,
	created_at, updated_at
) VALUES (
	:id, :name, :price,
	:gateway_api_endpoint, :gateway_http_method, :gateway_api_key, :gateway_secret_key,
	CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
)
ON CONFLICT (id) DO UPDATE SET
	name = excluded.name,
	price = excluded.price,
	gateway_api_endpoint = excluded.gateway_api_endpoint,
	gateway_http_method = excluded.gateway_http_method,
	gateway_api_key = excluded.gateway_api_key,
	gateway_secret_key = excluded.gateway_secret_key,
	updated_at = CURRENT_TIMESTAMP`

// UpsertPlans inserts or refreshes plans by id in one transaction.
func UpsertPlans(ctx context.Context, db *sqlx.DB, plans []plandatamodel.PricingPlan) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range plans {
		if _, err := tx.NamedExecContext(ctx, upsertPlanQuery, p); err != nil {
			return fmt.Errorf("failed to upsert plan %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}
