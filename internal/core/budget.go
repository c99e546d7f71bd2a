package core

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget tracks spending against a limit for one month, optionally tied to
// a category. Rollover carries unspent amounts into the next period, capped
// by MaxRolloverPct of the base limit.
type Budget struct {
	ID               string
	Name             string
	LimitAmount      Money
	SpentAmount      Money
	Month            Date // anchor date, first of month
	CategoryID       string
	RolloverEnabled  bool
	MaxRolloverPct   decimal.Decimal // 0..1
	RolledOverAmount Money
}

// NewBudget creates a budget anchored at the month containing `month`.
func NewBudget(name string, limit Money, month Date) Budget {
	return Budget{
		ID:          uuid.NewString(),
		Name:        name,
		LimitAmount: limit,
		Month:       month.MonthStart(),
	}
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if err := b.LimitAmount.Validate(); err != nil {
		return err
	}
	if err := b.Month.Validate(); err != nil {
		return err
	}
	return nil
}

// EffectiveLimit is the base limit plus whatever rolled over from the
// previous period.
func (b Budget) EffectiveLimit() Money {
	return b.LimitAmount.Add(b.RolledOverAmount)
}

// IsOverBudget reports whether spending exceeds the effective limit.
func (b Budget) IsOverBudget() bool {
	return b.SpentAmount.Cmp(b.EffectiveLimit()) > 0
}

// Progress is spent/effectiveLimit clamped to [0, 1]; zero when the
// effective limit is not positive.
func (b Budget) Progress() decimal.Decimal {
	limit := b.EffectiveLimit()
	if !limit.IsPositive() {
		return decimal.Zero
	}
	p := b.SpentAmount.Decimal().DivRound(limit.Decimal(), 4)
	if p.IsNegative() {
		return decimal.Zero
	}
	one := decimal.NewFromInt(1)
	if p.GreaterThan(one) {
		return one
	}
	return p
}

// RemainingAmount is what is left to spend, never negative.
func (b Budget) RemainingAmount() Money {
	rem := b.EffectiveLimit().Sub(b.SpentAmount)
	if rem.IsNegative() {
		return Money{}
	}
	return rem
}
