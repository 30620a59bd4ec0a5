// Package core holds the domain types shared across the application:
// accounts, expenses, money amounts and the budget alert classification.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a user-entered decimal string to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Sub-cent
// precision is rounded half away from zero. Zero and negative values are
// rejected: expense amounts are strictly positive.
func ParseAmount(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()}, nil
}

// ParseLimit is like ParseAmount but admits zero, which means "no budget set".
func ParseLimit(s string) (Money, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.Sign() < 0 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()}, nil
}

// Decimal returns the amount as an exact decimal in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount as e.g. "$12.34" for display.
func (m Money) String() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	s := strconv.FormatInt(cents/100, 10) + "." + fmt.Sprintf("%02d", cents%100)
	if neg {
		return "-$" + s
	}
	return "$" + s
}
