package order

import (
	"github.com/shopspring/decimal"
)

// Order is the single payment attempt submitted to the gateway. It is built
// once per checkout and never mutated.
type Order struct {
	ID       string
	Amount   decimal.Decimal
	Currency string
}

func New(id string, amount decimal.Decimal, currency string) Order {
	return Order{ID: id, Amount: amount, Currency: currency}
}
