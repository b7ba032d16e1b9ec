package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a delivery price. It travels as a bare JSON number, so it is
// decoded exactly and encoded without the quotes decimal uses by default.
type Price struct {
	decimal.Decimal
}

// NewPrice wraps a float input such as a parsed form value.
func NewPrice(value float64) Price {
	return Price{Decimal: decimal.NewFromFloat(value)}
}

// ParsePrice accepts user input like "10.5".
func ParsePrice(raw string) (Price, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Price{}, fmt.Errorf("price is empty")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	return Price{Decimal: d}, nil
}

// IsNegative reports whether the price is below zero.
func (p Price) IsNegative() bool {
	return p.Decimal.IsNegative()
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.Decimal.String()), nil
}

func (p *Price) UnmarshalJSON(data []byte) error {
	return p.Decimal.UnmarshalJSON(data)
}
