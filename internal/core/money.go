// Package core provides money parsing and handling utilities.
//
// Amounts are exact decimals. Display rounding happens only at the edges.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a currency amount in the user's single display currency.
type Money struct {
	amount decimal.Decimal
}

// Zero is the additive identity.
var Zero = Money{}

func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d}
}

// MoneyFromCents converts an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// MustMoney parses s and panics on failure. Intended for fixtures and constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return Money{amount: d}
}

// ParseMoney converts user input to Money with half-up rounding to cents.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns ErrInvalidAmount for invalid formats, negative values, or zero amounts.
//
// Examples:
//
//	ParseMoney("12.34")  -> 12.34
//	ParseMoney("12,34")  -> 12.34
//	ParseMoney("12.345") -> 12.35
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return Zero, ErrInvalidAmount
	}
	if strings.ContainsAny(s, "eE") {
		return Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return Zero, ErrInvalidAmount
	}
	return Money{amount: d}, nil
}

func (m Money) Validate() error {
	if !m.amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{amount: m.amount.Add(o.amount)} }
func (m Money) Sub(o Money) Money { return Money{amount: m.amount.Sub(o.amount)} }

func (m Money) Decimal() decimal.Decimal { return m.amount }
func (m Money) IsZero() bool             { return m.amount.IsZero() }
func (m Money) IsPositive() bool         { return m.amount.IsPositive() }
func (m Money) Cmp(o Money) int          { return m.amount.Cmp(o.amount) }
func (m Money) Equal(o Money) bool       { return m.amount.Equal(o.amount) }

// Cents returns the amount rounded to whole cents.
func (m Money) Cents() int64 {
	return m.amount.Shift(2).Round(0).IntPart()
}

// Float64 returns the value for display purposes only.
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// String formats the amount with two decimals.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON emits a bare JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	d, err := decimal.NewFromString(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	m.amount = d
	return nil
}
