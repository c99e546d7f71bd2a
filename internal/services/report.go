package services

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/storage"
)

// PeriodTotals aggregates signed movement over a date range.
type PeriodTotals struct {
	Income  core.Money
	Expense core.Money
	Net     core.Money
}

// ReportService answers read-only aggregate questions over the ledger.
// Results are cached for a short TTL; any write path must call Invalidate.
type ReportService struct {
	store *storage.SQLiteRepository
	cache *gocache.Cache
	log   *log.Logger
}

func NewReportService(store *storage.SQLiteRepository, ttl time.Duration, logger *log.Logger) *ReportService {
	return &ReportService{
		store: store,
		cache: gocache.New(ttl, 2*ttl),
		log:   logger.WithComponent(log.ComponentReport),
	}
}

// Invalidate drops every cached aggregate.
func (s *ReportService) Invalidate() {
	s.cache.Flush()
}

// Totals sums income, expense and net movement over [from, to).
// Transfers move money between accounts and count toward neither side.
func (s *ReportService) Totals(ctx context.Context, from, to core.Date) (PeriodTotals, error) {
	key := fmt.Sprintf("totals:%s:%s", from, to)
	if v, ok := s.cache.Get(key); ok {
		return v.(PeriodTotals), nil
	}

	txs, err := s.store.ListTransactionsBetween(ctx, from, to)
	if err != nil {
		return PeriodTotals{}, fmt.Errorf("list transactions: %w", err)
	}
	var t PeriodTotals
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Net = t.Income.Sub(t.Expense)

	s.cache.SetDefault(key, t)
	return t, nil
}

// CategorySpend sums expense amounts for one category over [from, to).
func (s *ReportService) CategorySpend(ctx context.Context, categoryID string, from, to core.Date) (core.Money, error) {
	key := fmt.Sprintf("catspend:%s:%s:%s", categoryID, from, to)
	if v, ok := s.cache.Get(key); ok {
		return v.(core.Money), nil
	}

	txs, err := s.store.ListTransactionsByCategory(ctx, categoryID, from, to)
	if err != nil {
		return core.Money{}, fmt.Errorf("list category transactions: %w", err)
	}
	var total core.Money
	for _, tx := range txs {
		if tx.Type == core.Expense {
			total = total.Add(tx.Amount)
		}
	}

	s.cache.SetDefault(key, total)
	return total, nil
}

// BudgetProgress refreshes a budget's spent amount from the ledger for
// its month and returns the updated value without persisting it.
func (s *ReportService) BudgetProgress(ctx context.Context, b core.Budget) (core.Budget, error) {
	spent, err := s.CategorySpend(ctx, b.CategoryID, b.Month, b.Month.NextMonthStart())
	if err != nil {
		return b, err
	}
	b.SpentAmount = spent
	return b, nil
}

// MonthlyCommitments sums the monthly equivalent cost of every active
// subscription.
func (s *ReportService) MonthlyCommitments(ctx context.Context) (core.Money, error) {
	const key = "commitments"
	if v, ok := s.cache.Get(key); ok {
		return v.(core.Money), nil
	}

	subs, err := s.store.ListSubscriptions(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("list subscriptions: %w", err)
	}
	var total core.Money
	for _, sub := range subs {
		if sub.IsActive {
			total = total.Add(sub.MonthlyEquivalent())
		}
	}

	s.cache.SetDefault(key, total)
	return total, nil
}
