// Package services orchestrates the ledger engines: import, billing,
// rollover, export and reporting.
package services

import (
	"context"
	"fmt"

	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/storage"
)

// RolloverAmount computes the unspent budget carried into the next
// period: clamp(effectiveLimit - spent, 0, limit x maxRolloverPct).
// Always zero when rollover is disabled.
func RolloverAmount(b core.Budget) core.Money {
	if !b.RolloverEnabled {
		return core.Money{}
	}
	unspent := b.EffectiveLimit().Sub(b.SpentAmount)
	if unspent.IsNegative() {
		return core.Money{}
	}
	bound := b.LimitAmount.Mul(b.MaxRolloverPct)
	if unspent.Cmp(bound) > 0 {
		return bound
	}
	return unspent
}

// NextPeriodBudget produces a fresh budget for the month following asOf,
// carrying the rollover and resetting spending. The source budget is
// never mutated; historical periods form an append-only sequence.
func NextPeriodBudget(b core.Budget, asOf core.Date) core.Budget {
	next := core.NewBudget(b.Name, b.LimitAmount, asOf.NextMonthStart())
	next.CategoryID = b.CategoryID
	next.RolloverEnabled = b.RolloverEnabled
	next.MaxRolloverPct = b.MaxRolloverPct
	next.RolledOverAmount = RolloverAmount(b)
	return next
}

// RolloverProcessor closes budget periods: it refreshes each budget's
// spending from the ledger and creates the next period's budget.
type RolloverProcessor struct {
	store   *storage.SQLiteRepository
	reports *ReportService
	log     *log.Logger
}

func NewRolloverProcessor(store *storage.SQLiteRepository, reports *ReportService, logger *log.Logger) *RolloverProcessor {
	return &RolloverProcessor{
		store:   store,
		reports: reports,
		log:     logger.WithComponent(log.ComponentLedger),
	}
}

// RollPeriod creates next-month budgets for every budget anchored at the
// month containing asOf. Existing budgets are left untouched; a budget
// that already has a successor is skipped. Returns the number created.
func (p *RolloverProcessor) RollPeriod(ctx context.Context, asOf core.Date) (int, error) {
	release, err := p.store.AcquireWriter(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	budgets, err := p.store.ListBudgets(ctx)
	if err != nil {
		return 0, fmt.Errorf("list budgets: %w", err)
	}

	month := asOf.MonthStart()
	next := asOf.NextMonthStart()
	successors := map[string]bool{}
	for _, b := range budgets {
		if b.Month.Equal(next) {
			successors[b.Name] = true
		}
	}

	created := 0
	for _, b := range budgets {
		if !b.Month.Equal(month) || successors[b.Name] {
			continue
		}
		refreshed := b
		if b.CategoryID != "" {
			refreshed, err = p.reports.BudgetProgress(ctx, b)
			if err != nil {
				p.log.ErrorContext(ctx, "budget refresh failed",
					log.FieldOperation, log.OpRollover,
					log.FieldEntityID, b.ID,
					log.FieldError, err)
				continue
			}
		}
		nb := NextPeriodBudget(refreshed, asOf)
		if err := p.store.CreateBudget(ctx, nb); err != nil {
			p.log.ErrorContext(ctx, "budget creation failed",
				log.FieldOperation, log.OpRollover,
				log.FieldEntityID, b.ID,
				log.FieldError, err)
			continue
		}
		created++
		p.log.InfoContext(ctx, "budget rolled over",
			log.FieldOperation, log.OpRollover,
			log.FieldEntityID, nb.ID,
			log.FieldAmount, nb.RolledOverAmount.String())
	}
	return created, nil
}
