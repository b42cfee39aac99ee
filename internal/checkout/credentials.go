package checkout

import (
	"strings"

	errors "github.com/frahmantamala/plan-checkout/internal"
	"github.com/frahmantamala/plan-checkout/internal/plan"
)

// Credentials are the process-wide gateway key pair used when a plan does
// not carry its own.
type Credentials struct {
	APIKey    string
	SecretKey string
}

// ResolveGatewayConfig merges the plan's gateway connection with the
// fallback credentials. Each of key and secret is taken from the plan when
// set, otherwise from fallback; both must end up non-empty.
func ResolveGatewayConfig(p *plan.Plan, fallback Credentials) (plan.GatewayConfig, error) {
	if p.Gateway == nil {
		return plan.GatewayConfig{}, errors.NewGatewayConfigMissingError("pricing plan has no payment gateway connection")
	}

	cfg := *p.Gateway
	if strings.TrimSpace(cfg.APIEndpoint) == "" {
		return plan.GatewayConfig{}, errors.NewGatewayConfigMissingError("payment gateway endpoint is not configured")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		cfg.APIKey = fallback.APIKey
	}
	if strings.TrimSpace(cfg.SecretKey) == "" {
		cfg.SecretKey = fallback.SecretKey
	}
	if !cfg.HasCredentials() {
		return plan.GatewayConfig{}, errors.NewGatewayConfigMissingError("payment gateway credentials are not configured")
	}

	return cfg, nil
}
