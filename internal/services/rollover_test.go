package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/log"
)

func rolloverBudget(limit, spent, rolled, maxPct string, enabled bool) core.Budget {
	b := core.NewBudget("food", core.MustMoney(limit), core.MustDate("2024-03-01"))
	b.SpentAmount = core.MustMoney(spent)
	b.RolledOverAmount = core.MustMoney(rolled)
	b.MaxRolloverPct = decimal.RequireFromString(maxPct)
	b.RolloverEnabled = enabled
	return b
}

func TestRolloverAmountDisabledIsAlwaysZero(t *testing.T) {
	cases := []core.Budget{
		rolloverBudget("100", "0", "0", "1", false),
		rolloverBudget("100", "250", "50", "0.5", false),
		rolloverBudget("0", "0", "0", "0", false),
	}
	for i, b := range cases {
		if got := RolloverAmount(b); !got.IsZero() {
			t.Fatalf("case %d: disabled rollover must be 0, got %s", i, got)
		}
	}
}

func TestRolloverAmount(t *testing.T) {
	cases := []struct {
		name   string
		budget core.Budget
		want   string
	}{
		{"unspent below cap", rolloverBudget("100", "80", "0", "0.5", true), "20"},
		{"unspent clamped to cap", rolloverBudget("100", "10", "0", "0.5", true), "50"},
		{"overspent yields zero", rolloverBudget("100", "150", "0", "0.5", true), "0"},
		{"previous rollover counts toward unspent", rolloverBudget("100", "90", "20", "0.5", true), "30"},
		{"zero cap", rolloverBudget("100", "0", "0", "0", true), "0"},
		{"full cap", rolloverBudget("100", "0", "0", "1", true), "100"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RolloverAmount(tc.budget)
			if !got.Equal(core.MustMoney(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
			// Bound property: 0 <= rollover <= limit x maxPct.
			if got.IsNegative() {
				t.Fatalf("rollover must not be negative")
			}
			bound := tc.budget.LimitAmount.Mul(tc.budget.MaxRolloverPct)
			if got.Cmp(bound) > 0 {
				t.Fatalf("rollover %s exceeds cap %s", got, bound)
			}
		})
	}
}

func TestNextPeriodBudget(t *testing.T) {
	b := rolloverBudget("100", "80", "0", "0.5", true)
	b.CategoryID = "cat-1"

	next := NextPeriodBudget(b, core.MustDate("2024-03-15"))

	if next.ID == b.ID {
		t.Fatalf("next period must be a new budget instance")
	}
	if next.Month.String() != "2024-04-01" {
		t.Fatalf("expected next month anchor, got %s", next.Month)
	}
	if !next.RolledOverAmount.Equal(core.MustMoney("20")) {
		t.Fatalf("expected rollover 20, got %s", next.RolledOverAmount)
	}
	if !next.SpentAmount.IsZero() {
		t.Fatalf("spending must reset, got %s", next.SpentAmount)
	}
	if next.Name != b.Name || next.CategoryID != b.CategoryID ||
		!next.LimitAmount.Equal(b.LimitAmount) ||
		next.RolloverEnabled != b.RolloverEnabled ||
		!next.MaxRolloverPct.Equal(b.MaxRolloverPct) {
		t.Fatalf("configuration must be copied: %+v", next)
	}
	// Source must be untouched.
	if !b.SpentAmount.Equal(core.MustMoney("80")) || !b.RolledOverAmount.IsZero() {
		t.Fatalf("source budget mutated: %+v", b)
	}

	dec := rolloverBudget("100", "150", "0", "0.5", true)
	next = NextPeriodBudget(dec, core.MustDate("2024-12-10"))
	if next.Month.String() != "2025-01-01" {
		t.Fatalf("year boundary: got %s", next.Month)
	}
	if !next.RolledOverAmount.IsZero() {
		t.Fatalf("overspent budget rolls zero, got %s", next.RolledOverAmount)
	}
}

func TestRollPeriod(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	logger := log.New(log.DefaultConfig())

	cat := core.NewCategory("Food", "fork")
	if err := store.CreateCategory(ctx, cat); err != nil {
		t.Fatalf("create category: %v", err)
	}
	tx := core.NewTransaction("shop", core.MustMoney("80"), core.MustDate("2024-03-12"), core.Expense)
	tx.CategoryID = cat.ID
	if err := store.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	b := rolloverBudget("100", "0", "0", "0.5", true)
	b.CategoryID = cat.ID
	past := rolloverBudget("100", "0", "0", "1", true)
	past.Month = core.MustDate("2024-02-01")
	for _, seed := range []core.Budget{b, past} {
		if err := store.CreateBudget(ctx, seed); err != nil {
			t.Fatalf("create budget: %v", err)
		}
	}

	proc := NewRolloverProcessor(store, NewReportService(store, time.Minute, logger), logger)
	created, err := proc.RollPeriod(ctx, core.MustDate("2024-03-31"))
	if err != nil {
		t.Fatalf("roll: %v", err)
	}
	if created != 1 {
		t.Fatalf("only the current month's budget rolls, got %d", created)
	}

	budgets, err := store.ListBudgets(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var next core.Budget
	for _, candidate := range budgets {
		if candidate.Month.String() == "2024-04-01" {
			next = candidate
		}
	}
	if next.ID == "" {
		t.Fatalf("expected an April budget, got %+v", budgets)
	}
	// Spending was refreshed from the ledger: 100 - 80 = 20 rolls over.
	if !next.RolledOverAmount.Equal(core.MustMoney("20")) {
		t.Fatalf("expected rollover 20, got %s", next.RolledOverAmount)
	}

	// A second run is a no-op: the successor already exists.
	created, err = proc.RollPeriod(ctx, core.MustDate("2024-03-31"))
	if err != nil {
		t.Fatalf("second roll: %v", err)
	}
	if created != 0 {
		t.Fatalf("rollover must not duplicate successors, created %d", created)
	}
}
