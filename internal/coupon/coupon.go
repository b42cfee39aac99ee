package coupon

import (
	"github.com/shopspring/decimal"
)

const defaultInvalidMessage = "Invalid coupon"

// Result is the discount decision for one coupon code. DiscountFraction is
// in [0,1] and only meaningful when Valid.
type Result struct {
	Code             string
	Valid            bool
	DiscountFraction decimal.Decimal
	Message          string
}

// Percent is the discount for display and logs only.
func (r *Result) Percent() decimal.Decimal {
	return r.DiscountFraction.Mul(decimal.NewFromInt(100))
}

// ApplyTo returns amount reduced by the discount fraction.
func (r *Result) ApplyTo(amount decimal.Decimal) decimal.Decimal {
	if r == nil || !r.Valid {
		return amount
	}
	return amount.Sub(amount.Mul(r.DiscountFraction))
}

// response is the body returned by the coupon endpoint.
type response struct {
	Valid    bool             `json:"valid"`
	Discount *decimal.Decimal `json:"discount"`
	Message  string           `json:"message"`
}
