package services

import (
	"context"
	"testing"
	"time"

	"tally/internal/core"
	"tally/internal/log"
)

func TestReportTotalsSkipTransfers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seed := []struct {
		title  string
		amount string
		typ    core.TransactionType
	}{
		{"Salary", "2500", core.Income},
		{"Rent", "900", core.Expense},
		{"Groceries", "123.45", core.Expense},
		{"To savings", "400", core.Transfer},
	}
	for _, s := range seed {
		tx := core.NewTransaction(s.title, core.MustMoney(s.amount), core.MustDate("2024-03-10"), s.typ)
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed %s: %v", s.title, err)
		}
	}

	rep := NewReportService(store, time.Minute, log.New(log.DefaultConfig()))
	totals, err := rep.Totals(ctx, core.MustDate("2024-03-01"), core.MustDate("2024-04-01"))
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Income.Equal(core.MustMoney("2500")) {
		t.Fatalf("income: got %s", totals.Income)
	}
	if !totals.Expense.Equal(core.MustMoney("1023.45")) {
		t.Fatalf("expense: got %s", totals.Expense)
	}
	if !totals.Net.Equal(core.MustMoney("1476.55")) {
		t.Fatalf("net: got %s", totals.Net)
	}
}

func TestReportCachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	rep := NewReportService(store, time.Minute, log.New(log.DefaultConfig()))

	from, to := core.MustDate("2024-03-01"), core.MustDate("2024-04-01")
	totals, err := rep.Totals(ctx, from, to)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Net.IsZero() {
		t.Fatalf("empty ledger must net zero, got %s", totals.Net)
	}

	tx := core.NewTransaction("Salary", core.MustMoney("100"), core.MustDate("2024-03-05"), core.Income)
	if err := store.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Still the cached answer.
	totals, err = rep.Totals(ctx, from, to)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Income.IsZero() {
		t.Fatalf("expected cached zero, got %s", totals.Income)
	}

	rep.Invalidate()
	totals, err = rep.Totals(ctx, from, to)
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Income.Equal(core.MustMoney("100")) {
		t.Fatalf("expected fresh 100 after invalidate, got %s", totals.Income)
	}
}

func TestBudgetProgress(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	cat := core.NewCategory("Food", "fork")
	if err := store.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	for _, amt := range []string{"20", "35.50"} {
		tx := core.NewTransaction("shop", core.MustMoney(amt), core.MustDate("2024-03-12"), core.Expense)
		tx.CategoryID = cat.ID
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	// Outside the budget month; must not count.
	stray := core.NewTransaction("shop", core.MustMoney("99"), core.MustDate("2024-04-01"), core.Expense)
	stray.CategoryID = cat.ID
	if err := store.CreateTransaction(ctx, stray); err != nil {
		t.Fatalf("seed: %v", err)
	}

	b := core.NewBudget("food", core.MustMoney("200"), core.MustDate("2024-03-01"))
	b.CategoryID = cat.ID

	rep := NewReportService(store, time.Minute, log.New(log.DefaultConfig()))
	got, err := rep.BudgetProgress(ctx, b)
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if !got.SpentAmount.Equal(core.MustMoney("55.50")) {
		t.Fatalf("expected spent 55.50, got %s", got.SpentAmount)
	}
}

func TestMonthlyCommitments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	active := core.NewSubscription("Netflix", "N", core.MustMoney("12"), core.Monthly, core.MustDate("2024-01-01"))
	yearly := core.NewSubscription("Domain", "D", core.MustMoney("120"), core.Yearly, core.MustDate("2024-01-01"))
	paused := core.NewSubscription("Gym", "G", core.MustMoney("99"), core.Monthly, core.MustDate("2024-01-01"))
	paused.IsActive = false
	for _, sub := range []core.Subscription{active, yearly, paused} {
		if err := store.CreateSubscription(ctx, sub); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rep := NewReportService(store, time.Minute, log.New(log.DefaultConfig()))
	total, err := rep.MonthlyCommitments(ctx)
	if err != nil {
		t.Fatalf("commitments: %v", err)
	}
	// 12 monthly + 120/12 yearly; the paused one is excluded.
	if !total.Equal(core.MustMoney("22")) {
		t.Fatalf("expected 22, got %s", total)
	}
}
