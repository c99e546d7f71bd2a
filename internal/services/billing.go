package services

import (
	"context"
	"fmt"

	"tally/internal/audit"
	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/storage"
)

// BillingProcessor bills due subscriptions: one expense transaction per
// payment, then the due date advances exactly one cycle. Billing is not
// idempotent; each ProcessPayment call is one payment.
type BillingProcessor struct {
	store *storage.SQLiteRepository
	audit audit.Recorder
	actor string
	log   *log.Logger
}

func NewBillingProcessor(store *storage.SQLiteRepository, recorder audit.Recorder, actor string, logger *log.Logger) *BillingProcessor {
	return &BillingProcessor{
		store: store,
		audit: recorder,
		actor: actor,
		log:   logger.WithComponent(log.ComponentBilling),
	}
}

// ProcessPayment records one payment for sub dated `now` and advances
// NextDueDate by one cycle, persisting both. The due date moves strictly
// forward even when the payment runs late.
func (p *BillingProcessor) ProcessPayment(ctx context.Context, sub core.Subscription, now core.Date) (core.Subscription, error) {
	tx := core.NewTransaction("Subscription: "+sub.Name, sub.Amount, now, core.Expense)
	tx.IsRecurring = true
	tx.AccountID = sub.AccountID
	tx.CategoryID = sub.CategoryID
	tx.CurrencyCode = sub.CurrencyCode
	tx.ModifiedBy = p.actor

	if err := p.store.CreateTransaction(ctx, tx); err != nil {
		return sub, fmt.Errorf("bill subscription %s: %w", sub.Name, err)
	}

	sub.NextDueDate = sub.Cycle.Advance(sub.NextDueDate)
	if err := p.store.UpdateSubscription(ctx, sub); err != nil {
		return sub, fmt.Errorf("advance due date for %s: %w", sub.Name, err)
	}

	if err := p.audit.Record(ctx, audit.NewEvent(audit.KindSubscriptionBilled, sub.ID, p.actor)); err != nil {
		p.log.WarnContext(ctx, "audit record failed",
			log.FieldOperation, log.OpBill,
			log.FieldEntityID, sub.ID,
			log.FieldError, err)
	}

	p.log.InfoContext(ctx, "subscription billed",
		log.FieldOperation, log.OpBill,
		log.FieldEntityID, sub.ID,
		log.FieldAmount, sub.Amount.String(),
		log.FieldCycle, string(sub.Cycle),
		log.FieldDueDate, sub.NextDueDate.String())
	return sub, nil
}

// ProcessDue bills every active subscription due as of `now` under a
// single writer hold. A failing subscription is logged and skipped; the
// rest of the batch still runs. Returns the number billed.
func (p *BillingProcessor) ProcessDue(ctx context.Context, now core.Date) (int, error) {
	release, err := p.store.AcquireWriter(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	due, err := p.store.ListDueSubscriptions(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due subscriptions: %w", err)
	}

	billed := 0
	for _, sub := range due {
		if _, err := p.ProcessPayment(ctx, sub, now); err != nil {
			p.log.ErrorContext(ctx, "billing failed",
				log.FieldOperation, log.OpBill,
				log.FieldEntityID, sub.ID,
				log.FieldError, err)
			continue
		}
		billed++
	}
	return billed, nil
}
