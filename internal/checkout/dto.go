package checkout

import (
	"regexp"
	"strings"

	errors "github.com/frahmantamala/plan-checkout/internal"
	"github.com/frahmantamala/plan-checkout/internal/core/common/validation"
)

var planIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Request is the checkout input. Field names follow the public JSON contract.
type Request struct {
	PlanID          string `json:"planId"`
	CouponCode      string `json:"couponCode,omitempty"`
	CouponsEndpoint string `json:"couponsEndpoint,omitempty"`
}

func (r *Request) Normalize() {
	r.PlanID = strings.TrimSpace(r.PlanID)
	r.CouponCode = strings.TrimSpace(r.CouponCode)
	r.CouponsEndpoint = strings.TrimSpace(r.CouponsEndpoint)
}

func (r *Request) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("planId", r.PlanID).Required().MaxLength(128).Matches(planIDPattern, "letters, digits, '.', '-' or '_'")
	v.Field("couponCode", r.CouponCode).MaxLength(64)
	v.Field("couponsEndpoint", r.CouponsEndpoint).MaxLength(2048).HTTPURL()
	return v.Validate()
}

// Response is the success body.
type Response struct {
	RedirectURL string `json:"redirectUrl"`
}
