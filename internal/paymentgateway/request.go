package paymentgateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	paymentgatewaytypes "github.com/frahmantamala/plan-checkout/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/plan-checkout/internal/order"
	"github.com/frahmantamala/plan-checkout/internal/plan"
)

// PaymentsPath is the payments resource every gateway endpoint must end in.
const PaymentsPath = "v1/payments"

// Request is a fully built payment-creation call.
type Request struct {
	URL     string
	Method  string
	Header  http.Header
	Body    []byte
	OrderID string
}

// BuildRequest turns a resolved gateway config and an order into the HTTP
// call. cfg must already carry both credentials.
func BuildRequest(cfg plan.GatewayConfig, o order.Order) (*Request, error) {
	endpoint := NormalizeEndpoint(cfg.APIEndpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("gateway endpoint is empty")
	}

	method := strings.ToUpper(strings.TrimSpace(cfg.HTTPMethod))
	if method == "" {
		method = http.MethodPost
	}

	payload := paymentgatewaytypes.PaymentRequest{
		Amount:   json.Number(o.Amount.String()),
		Currency: o.Currency,
		OrderID:  o.ID,
	}
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Authorization", AuthorizationHeader(cfg.APIKey, cfg.SecretKey))

	return &Request{
		URL:     endpoint,
		Method:  method,
		Header:  header,
		Body:    body,
		OrderID: o.ID,
	}, nil
}

// NormalizeEndpoint appends the payments path unless the endpoint already
// ends with it, so stored endpoints work with or without the resource path.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return ""
	}
	if strings.HasSuffix(endpoint, PaymentsPath) {
		return endpoint
	}
	return endpoint + "/" + PaymentsPath
}

// AuthorizationHeader encodes both credentials in one bearer value, the
// gateway's own convention.
func AuthorizationHeader(apiKey, secretKey string) string {
	return fmt.Sprintf("Bearer %s:%s", apiKey, secretKey)
}
