// Package core holds the ledger domain: money, dates, billing cycles
// and the persistent entities built on top of them.
//
// This file defines the decimal arithmetic contract. Monetary values are
// fixed-precision decimals, never floats; two amounts are equal iff their
// exact decimal values are equal.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrNegativeAmount  = errors.New("amount must not be negative")
	ErrUnknownCurrency = errors.New("unknown currency code")
)

// Money is a fixed-precision decimal amount. The zero value is zero money.
type Money struct {
	dec decimal.Decimal
}

// NewMoney builds a Money from a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{dec: d}
}

// MoneyFromString parses a plain decimal string ("125.50") into Money.
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{dec: d}, nil
}

// MustMoney is like MoneyFromString but panics on error. Test helper.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// MoneyFromInt builds a Money from whole units.
func MoneyFromInt(n int64) Money {
	return Money{dec: decimal.NewFromInt(n)}
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.dec }

func (m Money) Add(o Money) Money { return Money{dec: m.dec.Add(o.dec)} }
func (m Money) Sub(o Money) Money { return Money{dec: m.dec.Sub(o.dec)} }
func (m Money) Neg() Money        { return Money{dec: m.dec.Neg()} }
func (m Money) Abs() Money        { return Money{dec: m.dec.Abs()} }

// Mul multiplies by an arbitrary decimal factor (e.g. a rollover percentage).
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{dec: m.dec.Mul(factor)}
}

// DivInt divides by a whole number at scale 4 (used for cycle normalization).
func (m Money) DivInt(n int64) Money {
	return Money{dec: m.dec.DivRound(decimal.NewFromInt(n), 4)}
}

// Equal reports exact decimal equality: 1.5 equals 1.50.
func (m Money) Equal(o Money) bool { return m.dec.Equal(o.dec) }

// Cmp compares m and o, returning -1, 0 or 1.
func (m Money) Cmp(o Money) int { return m.dec.Cmp(o.dec) }

func (m Money) IsZero() bool     { return m.dec.IsZero() }
func (m Money) IsNegative() bool { return m.dec.IsNegative() }
func (m Money) IsPositive() bool { return m.dec.IsPositive() }

// String renders the exact decimal value, no currency symbol.
func (m Money) String() string { return m.dec.String() }

// StringFixed renders with exactly two fractional digits for display.
func (m Money) StringFixed() string { return m.dec.StringFixed(2) }

// Validate rejects negative magnitudes. Stored transaction amounts are
// unsigned; the sign is derived from the transaction type.
func (m Money) Validate() error {
	if m.dec.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}
