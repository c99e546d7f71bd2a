package core

import (
	"strings"

	"github.com/google/uuid"
)

// Subscription is a recurring obligation owned by an account. NextDueDate
// is advanced only by the billing engine, one cycle per payment.
type Subscription struct {
	ID            string
	Name          string
	Provider      string
	Amount        Money
	CurrencyCode  string
	Cycle         BillingCycle
	StartDate     Date
	NextDueDate   Date
	Notes         string
	PaymentMethod string
	IsActive      bool
	AutoRenews    bool
	CategoryID    string
	AccountID     string
}

// NewSubscription creates an active subscription first due at start.
func NewSubscription(name, provider string, amount Money, cycle BillingCycle, start Date) Subscription {
	return Subscription{
		ID:          uuid.NewString(),
		Name:        name,
		Provider:    provider,
		Amount:      amount,
		Cycle:       cycle,
		StartDate:   start,
		NextDueDate: start,
		IsActive:    true,
		AutoRenews:  true,
	}
}

func (s Subscription) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if err := s.Cycle.Validate(); err != nil {
		return err
	}
	if err := s.StartDate.Validate(); err != nil {
		return err
	}
	if err := s.NextDueDate.Validate(); err != nil {
		return err
	}
	if s.CurrencyCode != "" {
		if err := ValidateCurrency(s.CurrencyCode); err != nil {
			return err
		}
	}
	return nil
}

// MonthlyEquivalent normalizes the subscription cost to a monthly figure.
func (s Subscription) MonthlyEquivalent() Money {
	return s.Cycle.MonthlyEquivalent(s.Amount)
}

// IsDue reports whether the subscription should be billed as of `on`.
func (s Subscription) IsDue(on Date) bool {
	return s.IsActive && !s.NextDueDate.After(on)
}
