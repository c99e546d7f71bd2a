// Package storage persists the ledger in SQLite. One repository instance
// is the single logical owner of its database file; write-capable
// operations serialize through AcquireWriter.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/semaphore"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

type SQLiteRepository struct {
	db     *sql.DB
	writer *semaphore.Weighted
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		writer: semaphore.NewWeighted(1),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AcquireWriter takes the single-writer gate for a multi-step unit of
// work (an import run, a billing pass, an interactive edit). The caller
// must invoke the release function when done. Balance updates are not
// commutative, so interleaving writers is never allowed.
func (r *SQLiteRepository) AcquireWriter(ctx context.Context) (func(), error) {
	if err := r.writer.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire writer: %w", err)
	}
	return func() { r.writer.Release(1) }, nil
}

// --- accounts ---

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("validate account: %w", err)
	}
	var creditLimit sql.NullString
	if a.CreditLimit != nil {
		creditLimit = sql.NullString{String: a.CreditLimit.String(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, balance, currency_code, credit_limit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, string(a.Type), a.Balance.String(), a.CurrencyCode,
		creditLimit, a.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	return r.scanAccount(r.db.QueryRowContext(ctx, `
		SELECT id, name, type, balance, currency_code, credit_limit, created_at
		FROM accounts WHERE id = ?`, id))
}

func (r *SQLiteRepository) GetAccountByName(ctx context.Context, name string) (core.Account, error) {
	return r.scanAccount(r.db.QueryRowContext(ctx, `
		SELECT id, name, type, balance, currency_code, credit_limit, created_at
		FROM accounts WHERE name = ?`, name))
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, type, balance, currency_code, credit_limit, created_at
		FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scanAccount(row rowScanner) (core.Account, error) {
	var (
		a           core.Account
		typ         string
		balance     string
		creditLimit sql.NullString
		createdAt   string
	)
	err := row.Scan(&a.ID, &a.Name, &typ, &balance, &a.CurrencyCode, &creditLimit, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("scan account: %w", err)
	}
	a.Type = core.AccountType(typ)
	if a.Balance, err = core.MoneyFromString(balance); err != nil {
		return core.Account{}, fmt.Errorf("account balance %q: %w", balance, err)
	}
	if creditLimit.Valid {
		limit, err := core.MoneyFromString(creditLimit.String)
		if err != nil {
			return core.Account{}, fmt.Errorf("credit limit %q: %w", creditLimit.String, err)
		}
		a.CreditLimit = &limit
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.Account{}, fmt.Errorf("account created_at %q: %w", createdAt, err)
	}
	return a, nil
}

// DeleteAccountCascade removes an account together with the transactions
// and subscriptions it owns, in one database transaction.
func (r *SQLiteRepository) DeleteAccountCascade(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("delete owned transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("delete owned subscriptions: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// --- categories ---

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("validate category: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, icon_name) VALUES (?, ?, ?)`,
		c.ID, c.Name, c.IconName)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetCategoryByName(ctx context.Context, name string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, icon_name FROM categories WHERE name = ?`, name).
		Scan(&c.ID, &c.Name, &c.IconName)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, icon_name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IconName); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// DeleteCategory clears references from transactions and budgets, then
// removes the category. Referencing transactions survive uncategorized.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE transactions SET category_id = NULL WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("clear transaction references: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE budgets SET category_id = NULL WHERE category_id = ?`, id); err != nil {
		return fmt.Errorf("clear budget references: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// --- transactions ---

// CreateTransaction persists a transaction and immediately applies its
// signed amount to the owning account's balance, atomically. The balance
// invariant is maintained on write, never recomputed on read.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := insertTransaction(ctx, tx, t); err != nil {
		return err
	}
	if t.AccountID != "" {
		if err := applyBalanceDelta(ctx, tx, t.AccountID, t.SignedAmount()); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.DebugContext(ctx, "Transaction persisted",
		"id", t.ID, "title", t.Title, "amount", t.Amount.String(), "type", string(t.Type))
	return nil
}

// UpdateTransaction rewrites a transaction and adjusts account balances:
// the old signed amount is reversed on the old account and the new one
// applied to the new account, atomically.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	old, err := scanTransaction(tx.QueryRowContext(ctx, selectTransaction+` WHERE id = ?`, t.ID))
	if err != nil {
		return err
	}

	if old.AccountID != "" {
		if err := applyBalanceDelta(ctx, tx, old.AccountID, old.SignedAmount().Neg()); err != nil {
			return err
		}
	}
	if t.AccountID != "" {
		if err := applyBalanceDelta(ctx, tx, t.AccountID, t.SignedAmount()); err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE transactions SET
			title = ?, amount = ?, date = ?, type = ?, notes_sealed = ?,
			is_reconciled = ?, is_recurring = ?, location = ?, subcategory = ?,
			category_id = ?, account_id = ?, currency_code = ?,
			modified_at = ?, modified_by = ?
		WHERE id = ?`,
		t.Title, t.Amount.String(), t.Date.String(), string(t.Type), t.NotesSealed,
		t.IsReconciled, t.IsRecurring, t.Location, t.Subcategory,
		nullable(t.CategoryID), nullable(t.AccountID), t.CurrencyCode,
		t.ModifiedAt.UTC().Format(time.RFC3339), t.ModifiedBy, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return scanTransaction(r.db.QueryRowContext(ctx, selectTransaction+` WHERE id = ?`, id))
}

// ListTransactionsBetween returns transactions dated within [from, to),
// oldest first, insertion order within a day.
func (r *SQLiteRepository) ListTransactionsBetween(ctx context.Context, from, to core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTransaction+` WHERE date >= ? AND date < ? ORDER BY date, created_at`,
		from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListTransactionsByCategory returns expense and income rows referencing
// the category within [from, to).
func (r *SQLiteRepository) ListTransactionsByCategory(ctx context.Context, categoryID string, from, to core.Date) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTransaction+` WHERE category_id = ? AND date >= ? AND date < ? ORDER BY date, created_at`,
		categoryID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("list transactions by category: %w", err)
	}
	return collectTransactions(rows)
}

func (r *SQLiteRepository) ListTransactionsByAccount(ctx context.Context, accountID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		selectTransaction+` WHERE account_id = ? ORDER BY date, created_at`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by account: %w", err)
	}
	return collectTransactions(rows)
}

const selectTransaction = `
	SELECT id, title, amount, date, type, notes_sealed, is_reconciled,
	       is_recurring, location, subcategory, category_id, account_id,
	       currency_code, created_at, modified_at, modified_by
	FROM transactions`

func insertTransaction(ctx context.Context, tx *sql.Tx, t core.Transaction) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (
			id, title, amount, date, type, notes_sealed, is_reconciled,
			is_recurring, location, subcategory, category_id, account_id,
			currency_code, created_at, modified_at, modified_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Amount.String(), t.Date.String(), string(t.Type),
		t.NotesSealed, t.IsReconciled, t.IsRecurring, t.Location, t.Subcategory,
		nullable(t.CategoryID), nullable(t.AccountID), t.CurrencyCode,
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.ModifiedAt.UTC().Format(time.RFC3339), t.ModifiedBy)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t          core.Transaction
		amount     string
		date       string
		typ        string
		categoryID sql.NullString
		accountID  sql.NullString
		createdAt  string
		modifiedAt string
	)
	err := row.Scan(&t.ID, &t.Title, &amount, &date, &typ, &t.NotesSealed,
		&t.IsReconciled, &t.IsRecurring, &t.Location, &t.Subcategory,
		&categoryID, &accountID, &t.CurrencyCode, &createdAt, &modifiedAt, &t.ModifiedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	if t.Amount, err = core.MoneyFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction amount %q: %w", amount, err)
	}
	if t.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction date %q: %w", date, err)
	}
	t.Type = core.TransactionType(typ)
	t.CategoryID = categoryID.String
	t.AccountID = accountID.String
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction created_at %q: %w", createdAt, err)
	}
	if t.ModifiedAt, err = time.Parse(time.RFC3339, modifiedAt); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction modified_at %q: %w", modifiedAt, err)
	}
	return t, nil
}

func collectTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	defer rows.Close()
	var txs []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// applyBalanceDelta reads, adjusts and writes an account balance inside
// the caller's transaction. Exact decimal arithmetic happens in Go; the
// column only ever holds decimal strings.
func applyBalanceDelta(ctx context.Context, tx *sql.Tx, accountID string, delta core.Money) error {
	if delta.IsZero() {
		return nil
	}
	var raw string
	err := tx.QueryRowContext(ctx, `SELECT balance FROM accounts WHERE id = ?`, accountID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("account %s: %w", accountID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	balance, err := core.MoneyFromString(raw)
	if err != nil {
		return fmt.Errorf("stored balance %q: %w", raw, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = ? WHERE id = ?`,
		balance.Add(delta).String(), accountID); err != nil {
		return fmt.Errorf("write balance: %w", err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// --- budgets ---

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("validate budget: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, name, limit_amount, spent_amount, month,
			category_id, rollover_enabled, max_rollover_pct, rolled_over_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Name, b.LimitAmount.String(), b.SpentAmount.String(), b.Month.String(),
		nullable(b.CategoryID), b.RolloverEnabled, b.MaxRolloverPct.String(),
		b.RolledOverAmount.String())
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets SET name = ?, limit_amount = ?, spent_amount = ?, month = ?,
			category_id = ?, rollover_enabled = ?, max_rollover_pct = ?, rolled_over_amount = ?
		WHERE id = ?`,
		b.Name, b.LimitAmount.String(), b.SpentAmount.String(), b.Month.String(),
		nullable(b.CategoryID), b.RolloverEnabled, b.MaxRolloverPct.String(),
		b.RolledOverAmount.String(), b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	return scanBudget(r.db.QueryRowContext(ctx, selectBudget+` WHERE id = ?`, id))
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, selectBudget+` ORDER BY month, name`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

const selectBudget = `
	SELECT id, name, limit_amount, spent_amount, month, category_id,
	       rollover_enabled, max_rollover_pct, rolled_over_amount
	FROM budgets`

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b          core.Budget
		limit      string
		spent      string
		month      string
		categoryID sql.NullString
		maxPct     string
		rolled     string
	)
	err := row.Scan(&b.ID, &b.Name, &limit, &spent, &month, &categoryID,
		&b.RolloverEnabled, &maxPct, &rolled)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	if b.LimitAmount, err = core.MoneyFromString(limit); err != nil {
		return core.Budget{}, fmt.Errorf("budget limit %q: %w", limit, err)
	}
	if b.SpentAmount, err = core.MoneyFromString(spent); err != nil {
		return core.Budget{}, fmt.Errorf("budget spent %q: %w", spent, err)
	}
	if b.Month, err = core.ParseDate(month); err != nil {
		return core.Budget{}, fmt.Errorf("budget month %q: %w", month, err)
	}
	b.CategoryID = categoryID.String
	pct, err := core.MoneyFromString(maxPct)
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget rollover pct %q: %w", maxPct, err)
	}
	b.MaxRolloverPct = pct.Decimal()
	if b.RolledOverAmount, err = core.MoneyFromString(rolled); err != nil {
		return core.Budget{}, fmt.Errorf("budget rolled over %q: %w", rolled, err)
	}
	return b, nil
}

// --- subscriptions ---

func (r *SQLiteRepository) CreateSubscription(ctx context.Context, s core.Subscription) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate subscription: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (id, name, provider, amount, currency_code,
			billing_cycle, start_date, next_due_date, notes, payment_method,
			is_active, auto_renews, category_id, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Provider, s.Amount.String(), s.CurrencyCode,
		string(s.Cycle), s.StartDate.String(), s.NextDueDate.String(),
		s.Notes, s.PaymentMethod, s.IsActive, s.AutoRenews,
		nullable(s.CategoryID), nullable(s.AccountID))
	if err != nil {
		return fmt.Errorf("create subscription: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateSubscription(ctx context.Context, s core.Subscription) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subscriptions SET name = ?, provider = ?, amount = ?, currency_code = ?,
			billing_cycle = ?, start_date = ?, next_due_date = ?, notes = ?,
			payment_method = ?, is_active = ?, auto_renews = ?, category_id = ?, account_id = ?
		WHERE id = ?`,
		s.Name, s.Provider, s.Amount.String(), s.CurrencyCode,
		string(s.Cycle), s.StartDate.String(), s.NextDueDate.String(), s.Notes,
		s.PaymentMethod, s.IsActive, s.AutoRenews,
		nullable(s.CategoryID), nullable(s.AccountID), s.ID)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetSubscription(ctx context.Context, id string) (core.Subscription, error) {
	return scanSubscription(r.db.QueryRowContext(ctx, selectSubscription+` WHERE id = ?`, id))
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, selectSubscription+` ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return collectSubscriptions(rows)
}

// ListDueSubscriptions returns active subscriptions whose next due date is
// on or before the given day.
func (r *SQLiteRepository) ListDueSubscriptions(ctx context.Context, on core.Date) ([]core.Subscription, error) {
	rows, err := r.db.QueryContext(ctx,
		selectSubscription+` WHERE is_active = 1 AND next_due_date <= ? ORDER BY next_due_date`,
		on.String())
	if err != nil {
		return nil, fmt.Errorf("list due subscriptions: %w", err)
	}
	return collectSubscriptions(rows)
}

const selectSubscription = `
	SELECT id, name, provider, amount, currency_code, billing_cycle,
	       start_date, next_due_date, notes, payment_method, is_active,
	       auto_renews, category_id, account_id
	FROM subscriptions`

func scanSubscription(row rowScanner) (core.Subscription, error) {
	var (
		s          core.Subscription
		amount     string
		cycle      string
		startDate  string
		dueDate    string
		categoryID sql.NullString
		accountID  sql.NullString
	)
	err := row.Scan(&s.ID, &s.Name, &s.Provider, &amount, &s.CurrencyCode,
		&cycle, &startDate, &dueDate, &s.Notes, &s.PaymentMethod,
		&s.IsActive, &s.AutoRenews, &categoryID, &accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Subscription{}, ErrNotFound
	}
	if err != nil {
		return core.Subscription{}, fmt.Errorf("scan subscription: %w", err)
	}
	if s.Amount, err = core.MoneyFromString(amount); err != nil {
		return core.Subscription{}, fmt.Errorf("subscription amount %q: %w", amount, err)
	}
	s.Cycle = core.BillingCycle(cycle)
	if s.StartDate, err = core.ParseDate(startDate); err != nil {
		return core.Subscription{}, fmt.Errorf("subscription start %q: %w", startDate, err)
	}
	if s.NextDueDate, err = core.ParseDate(dueDate); err != nil {
		return core.Subscription{}, fmt.Errorf("subscription due %q: %w", dueDate, err)
	}
	s.CategoryID = categoryID.String
	s.AccountID = accountID.String
	return s, nil
}

func collectSubscriptions(rows *sql.Rows) ([]core.Subscription, error) {
	defer rows.Close()
	var subs []core.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// --- savings goals ---

func (r *SQLiteRepository) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("validate savings goal: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO savings_goals (id, name, target_amount, current_amount, target_date)
		VALUES (?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), g.TargetDate.String())
	if err != nil {
		return fmt.Errorf("create savings goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetSavingsGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	var (
		g       core.SavingsGoal
		target  string
		current string
		byDate  string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, target_amount, current_amount, target_date
		FROM savings_goals WHERE id = ?`, id).
		Scan(&g.ID, &g.Name, &target, &current, &byDate)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, ErrNotFound
	}
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("get savings goal: %w", err)
	}
	if g.TargetAmount, err = core.MoneyFromString(target); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("goal target %q: %w", target, err)
	}
	if g.CurrentAmount, err = core.MoneyFromString(current); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("goal current %q: %w", current, err)
	}
	if g.TargetDate, err = core.ParseDate(byDate); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("goal date %q: %w", byDate, err)
	}
	return g, nil
}

// AddToSavingsGoal increases the goal's saved amount.
func (r *SQLiteRepository) AddToSavingsGoal(ctx context.Context, id string, amount core.Money) error {
	g, err := r.GetSavingsGoal(ctx, id)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE savings_goals SET current_amount = ? WHERE id = ?`,
		g.CurrentAmount.Add(amount).String(), id)
	if err != nil {
		return fmt.Errorf("update savings goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
