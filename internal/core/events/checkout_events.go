package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeCheckoutAmountComputed = "checkout.amount_computed"
	EventTypeCheckoutSucceeded      = "checkout.succeeded"
	EventTypeCheckoutFailed         = "checkout.failed"
)

// AmountComputedEvent is the audit record of what is about to be charged.
type AmountComputedEvent struct {
	BaseEvent
	PlanID          string `json:"plan_id"`
	OrderID         string `json:"order_id"`
	BaseAmount      string `json:"base_amount"`
	FinalAmount     string `json:"final_amount"`
	DiscountPercent string `json:"discount_percent"`
	Currency        string `json:"currency"`
	CouponCode      string `json:"coupon_code,omitempty"`
}

func NewAmountComputedEvent(planID, orderID, baseAmount, finalAmount, discountPercent, currency, couponCode string) *AmountComputedEvent {
	return &AmountComputedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCheckoutAmountComputed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"plan_id":          planID,
				"order_id":         orderID,
				"base_amount":      baseAmount,
				"final_amount":     finalAmount,
				"discount_percent": discountPercent,
				"currency":         currency,
				"coupon_code":      couponCode,
			},
		},
		PlanID:          planID,
		OrderID:         orderID,
		BaseAmount:      baseAmount,
		FinalAmount:     finalAmount,
		DiscountPercent: discountPercent,
		Currency:        currency,
		CouponCode:      couponCode,
	}
}

type CheckoutSucceededEvent struct {
	BaseEvent
	PlanID  string `json:"plan_id"`
	OrderID string `json:"order_id"`
	Amount  string `json:"amount"`
}

func NewCheckoutSucceededEvent(planID, orderID, amount string) *CheckoutSucceededEvent {
	return &CheckoutSucceededEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCheckoutSucceeded,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"plan_id":  planID,
				"order_id": orderID,
				"amount":   amount,
			},
		},
		PlanID:  planID,
		OrderID: orderID,
		Amount:  amount,
	}
}

type CheckoutFailedEvent struct {
	BaseEvent
	PlanID    string `json:"plan_id"`
	OrderID   string `json:"order_id,omitempty"`
	Stage     string `json:"stage"`
	ErrorCode string `json:"error_code"`
}

func NewCheckoutFailedEvent(planID, orderID, stage, errorCode string) *CheckoutFailedEvent {
	return &CheckoutFailedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeCheckoutFailed,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"plan_id":    planID,
				"order_id":   orderID,
				"stage":      stage,
				"error_code": errorCode,
			},
		},
		PlanID:    planID,
		OrderID:   orderID,
		Stage:     stage,
		ErrorCode: errorCode,
	}
}

// AuditLogger returns a handler that writes every checkout event to logger.
func AuditLogger(logger *slog.Logger) Handler {
	return func(_ context.Context, event Event) error {
		logger.Info("checkout audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}
}
