package order

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	nameMaxLength  = 10
	suffixLength   = 6
	suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	stampLayout    = "02-01-2006-15"
	fallbackName   = "order"
)

var nameStrip = regexp.MustCompile(`[\s.]+`)

// IDGenerator builds order ids of the form
//
//	{plan name}-{DD-MM-YYYY-HH}-{floor(amount)}-{6 random base36 chars}
//
// The prefix keeps ids traceable by a human; the suffix makes collisions
// unlikely without a central counter. Ids are NOT guaranteed unique: two
// orders for the same plan, hour and amount collide with probability 1/36^6.
type IDGenerator struct {
	random io.Reader
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{random: rand.Reader}
}

// NewIDGeneratorWithSource is for tests that need a deterministic suffix.
func NewIDGeneratorWithSource(random io.Reader) *IDGenerator {
	return &IDGenerator{random: random}
}

func (g *IDGenerator) Generate(planName string, amount decimal.Decimal, now time.Time) (string, error) {
	suffix, err := g.suffix()
	if err != nil {
		return "", fmt.Errorf("failed to generate order id suffix: %w", err)
	}

	return strings.Join([]string{
		NormalizePlanName(planName),
		now.Format(stampLayout),
		amount.Floor().StringFixed(0),
		suffix,
	}, "-"), nil
}

// NormalizePlanName drops whitespace and dots and keeps the first 10 runes.
func NormalizePlanName(name string) string {
	cleaned := []rune(nameStrip.ReplaceAllString(name, ""))
	if len(cleaned) > nameMaxLength {
		cleaned = cleaned[:nameMaxLength]
	}
	if len(cleaned) == 0 {
		return fallbackName
	}
	return string(cleaned)
}

func (g *IDGenerator) suffix() (string, error) {
	max := big.NewInt(int64(len(suffixAlphabet)))
	var b strings.Builder
	b.Grow(suffixLength)
	for i := 0; i < suffixLength; i++ {
		n, err := rand.Int(g.random, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(suffixAlphabet[n.Int64()])
	}
	return b.String(), nil
}
