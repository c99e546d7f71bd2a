package core

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsGoal tracks progress toward a target amount by a target date.
type SavingsGoal struct {
	ID            string
	Name          string
	TargetAmount  Money
	CurrentAmount Money
	TargetDate    Date
}

// NewSavingsGoal creates a goal with a generated identity and no savings.
func NewSavingsGoal(name string, target Money, by Date) SavingsGoal {
	return SavingsGoal{
		ID:           uuid.NewString(),
		Name:         name,
		TargetAmount: target,
		TargetDate:   by,
	}
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if err := g.CurrentAmount.Validate(); err != nil {
		return err
	}
	return g.TargetDate.Validate()
}

// IsCompleted reports whether the goal has been reached.
func (g SavingsGoal) IsCompleted() bool {
	return g.CurrentAmount.Cmp(g.TargetAmount) >= 0
}

// ProgressPercentage is current/target as a percentage in [0, 100].
func (g SavingsGoal) ProgressPercentage() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	p := g.CurrentAmount.Decimal().DivRound(g.TargetAmount.Decimal(), 4).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if p.GreaterThan(hundred) {
		return hundred
	}
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// DaysRemaining counts whole days until the target date, never negative.
func (g SavingsGoal) DaysRemaining(now Date) int {
	days := now.DaysUntil(g.TargetDate)
	if days < 0 {
		return 0
	}
	return days
}
