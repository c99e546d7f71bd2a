package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BillingCycle is the recurrence unit governing subscription due-date
// advancement.
type BillingCycle string

const (
	Daily     BillingCycle = "daily"
	Weekly    BillingCycle = "weekly"
	Monthly   BillingCycle = "monthly"
	Quarterly BillingCycle = "quarterly"
	Yearly    BillingCycle = "yearly"
)

// ParseBillingCycle parses a cycle token, case-insensitively.
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(strings.ToLower(strings.TrimSpace(s))) {
	case Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	case Quarterly:
		return Quarterly, nil
	case Yearly:
		return Yearly, nil
	default:
		return "", fmt.Errorf("unknown billing cycle %q", s)
	}
}

func (c BillingCycle) Validate() error {
	switch c {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return nil
	default:
		return fmt.Errorf("invalid billing cycle %q", string(c))
	}
}

// Advance moves a due date forward by exactly one calendar unit. Month and
// year steps clamp to the last day of the target month, so a quarterly
// subscription due Jan 31 becomes due Apr 30.
func (c BillingCycle) Advance(d Date) Date {
	switch c {
	case Daily:
		return d.AddDays(1)
	case Weekly:
		return d.AddDays(7)
	case Monthly:
		return d.AddMonths(1)
	case Quarterly:
		return d.AddMonths(3)
	case Yearly:
		return d.AddYears(1)
	default:
		panic(fmt.Sprintf("unknown billing cycle %q", string(c)))
	}
}

// weeklyFactor normalizes weekly amounts to monthly (4.33 weeks per month).
var weeklyFactor = decimal.RequireFromString("4.33")

// MonthlyEquivalent normalizes an amount billed at this cycle to a monthly
// figure: daily x30, weekly x4.33, monthly x1, quarterly /3, yearly /12.
func (c BillingCycle) MonthlyEquivalent(amount Money) Money {
	switch c {
	case Daily:
		return amount.Mul(decimal.NewFromInt(30))
	case Weekly:
		return amount.Mul(weeklyFactor)
	case Monthly:
		return amount
	case Quarterly:
		return amount.DivInt(3)
	case Yearly:
		return amount.DivInt(12)
	default:
		return amount
	}
}
