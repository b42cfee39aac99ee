package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	errors "github.com/frahmantamala/plan-checkout/internal"
)

const DefaultCurrency = "USD"

var (
	nonNumeric    = regexp.MustCompile(`[^0-9.]`)
	leadingNumber = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)`)
)

// ParsedPrice is a plan price split into amount and ISO currency code.
type ParsedPrice struct {
	Amount   decimal.Decimal
	Currency string
}

// ParsePrice reads human-authored prices such as "49.90 USD" or "$49.90".
// Only '.' is a decimal separator. The currency token is taken verbatim.
func ParsePrice(raw string) (ParsedPrice, error) {
	parts := strings.Fields(raw)
	if len(parts) == 0 {
		return ParsedPrice{}, errors.NewMalformedPriceError(raw)
	}

	cleaned := nonNumeric.ReplaceAllString(parts[0], "")
	number := leadingNumber.FindString(cleaned)
	if number == "" {
		return ParsedPrice{}, errors.NewMalformedPriceError(raw)
	}

	amount, err := decimal.NewFromString(strings.TrimSuffix(number, "."))
	if err != nil {
		return ParsedPrice{}, errors.NewMalformedPriceError(raw).WithCause(err)
	}

	currency := DefaultCurrency
	if len(parts) > 1 {
		currency = parts[1]
	}

	return ParsedPrice{Amount: amount, Currency: currency}, nil
}
