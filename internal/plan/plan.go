package plan

import (
	"context"
	"strings"

	plandatamodel "github.com/frahmantamala/plan-checkout/internal/core/datamodel/plan"
)

// Plan is a purchasable offering as stored in the content store. Gateway is
// nil when the plan has no gateway connection attached.
type Plan struct {
	ID       string
	Name     string
	RawPrice string
	Gateway  *GatewayConfig
}

// GatewayConfig is the per-plan connection to the payment gateway. APIKey and
// SecretKey may be empty; the checkout falls back to process-wide values.
type GatewayConfig struct {
	APIEndpoint string
	HTTPMethod  string
	APIKey      string
	SecretKey   string
}

// HasCredentials reports whether both credentials are present.
func (g GatewayConfig) HasCredentials() bool {
	return strings.TrimSpace(g.APIKey) != "" && strings.TrimSpace(g.SecretKey) != ""
}

// RepositoryAPI looks plans up by id. FindByID returns (nil, nil) when the
// plan does not exist so callers can tell "missing" from "store down".
type RepositoryAPI interface {
	FindByID(ctx context.Context, id string) (*Plan, error)
}

func FromDataModel(p *plandatamodel.PricingPlan) *Plan {
	out := &Plan{
		ID:       p.ID,
		Name:     p.Name,
		RawPrice: p.Price,
	}
	if p.GatewayAPIEndpoint != "" {
		out.Gateway = &GatewayConfig{
			APIEndpoint: p.GatewayAPIEndpoint,
			HTTPMethod:  p.GatewayHTTPMethod,
			APIKey:      p.GatewayAPIKey,
			SecretKey:   p.GatewaySecretKey,
		}
	}
	return out
}

func ToDataModel(p *Plan) *plandatamodel.PricingPlan {
	out := &plandatamodel.PricingPlan{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.RawPrice,
	}
	if p.Gateway != nil {
		out.GatewayAPIEndpoint = p.Gateway.APIEndpoint
		out.GatewayHTTPMethod = p.Gateway.HTTPMethod
		out.GatewayAPIKey = p.Gateway.APIKey
		out.GatewaySecretKey = p.Gateway.SecretKey
	}
	return out
}
