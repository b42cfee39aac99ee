package paymentgateway

import (
	"encoding/json"
	"errors"
)

// PaymentRequest is the payment-creation body. Amount is a JSON number
// literal so the exact decimal reaches the gateway.
type PaymentRequest struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
	OrderID  string      `json:"order_id"`
}

func (r *PaymentRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order_id is required")
	}
	if r.Amount == "" {
		return errors.New("amount is required")
	}
	if r.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}

// PaymentResponse is the part of the gateway answer the checkout needs.
type PaymentResponse struct {
	RedirectURL string `json:"redirect_url"`
}
