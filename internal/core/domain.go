package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gomoney "github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

const (
	Income   TransactionType = "income"
	Expense  TransactionType = "expense"
	Transfer TransactionType = "transfer"
)

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Credit     AccountType = "credit"
	Investment AccountType = "investment"
	Cash       AccountType = "cash"
)

type (
	TransactionType string

	AccountType string

	// Account owns transactions and subscriptions. Its balance always
	// equals the net of all owned transactions, maintained on write.
	Account struct {
		ID           string
		Name         string
		Type         AccountType
		Balance      Money
		CurrencyCode string
		CreditLimit  *Money
		CreatedAt    time.Time
	}

	// Transaction is a single money-movement event. Amount is a
	// non-negative magnitude; the sign is derived from Type. Category
	// and Account references are weak and may be empty.
	Transaction struct {
		ID           string
		Title        string
		Amount       Money
		Date         Date
		Type         TransactionType
		Notes        string
		NotesSealed  []byte // encrypted form of Notes, nil when encryption failed or was skipped
		IsReconciled bool
		IsRecurring  bool
		Location     string
		Subcategory  string
		CategoryID   string
		AccountID    string
		CurrencyCode string
		CreatedAt    time.Time
		ModifiedAt   time.Time
		ModifiedBy   string
	}

	// Category is referenced, never owned, by transactions and budgets.
	Category struct {
		ID       string
		Name     string
		IconName string
	}
)

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAccount   = errors.New("invalid account type")
	ErrNegativeBalance  = errors.New("credit limit must not be negative")
)

// ParseTransactionType recognizes the explicit type tokens accepted on
// import: income/credit/deposit, expense/debit/withdrawal, transfer.
// The second result is false when the token is absent or unrecognized;
// the caller then falls back to sign inference.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "credit", "deposit":
		return Income, true
	case "expense", "debit", "withdrawal":
		return Expense, true
	case "transfer":
		return Transfer, true
	default:
		return "", false
	}
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense, Transfer:
		return nil
	default:
		return ErrInvalidType
	}
}

func (a AccountType) Validate() error {
	switch a {
	case Checking, Savings, Credit, Investment, Cash:
		return nil
	default:
		return ErrInvalidAccount
	}
}

// ValidateCurrency checks a code against the ISO-4217 table.
func ValidateCurrency(code string) error {
	if gomoney.GetCurrency(strings.ToUpper(code)) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return nil
}

// NewAccount creates an account with a generated identity and zero balance.
func NewAccount(name string, typ AccountType, currencyCode string) Account {
	return Account{
		ID:           uuid.NewString(),
		Name:         name,
		Type:         typ,
		CurrencyCode: strings.ToUpper(currencyCode),
		CreatedAt:    time.Now().UTC(),
	}
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if err := a.Type.Validate(); err != nil {
		return err
	}
	if err := ValidateCurrency(a.CurrencyCode); err != nil {
		return err
	}
	if a.CreditLimit != nil && a.CreditLimit.IsNegative() {
		return ErrNegativeBalance
	}
	return nil
}

// NewTransaction creates a transaction with a generated identity. The
// currency defaults to the owning account's at persist time when empty.
func NewTransaction(title string, amount Money, on Date, typ TransactionType) Transaction {
	now := time.Now().UTC()
	return Transaction{
		ID:        uuid.NewString(),
		Title:     title,
		Amount:    amount.Abs(),
		Date:      on,
		Type:      typ,
		CreatedAt: now,
		ModifiedAt: now,
	}
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.CurrencyCode != "" {
		if err := ValidateCurrency(t.CurrencyCode); err != nil {
			return err
		}
	}
	return nil
}

// SignedAmount is the delta this transaction applies to its account
// balance: +amount for income, -amount for expense, zero for transfers
// (single-entry, the paired movement lives on the other account).
func (t Transaction) SignedAmount() Money {
	switch t.Type {
	case Income:
		return t.Amount
	case Expense:
		return t.Amount.Neg()
	default:
		return Money{}
	}
}

// NewCategory creates a category with a generated identity.
func NewCategory(name, iconName string) Category {
	return Category{ID: uuid.NewString(), Name: name, IconName: iconName}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// TotalSpent sums expense-type transactions referencing this category
// whose date falls within [from, to).
func (c Category) TotalSpent(txs []Transaction, from, to Date) Money {
	var total Money
	for _, t := range txs {
		if t.CategoryID != c.ID || t.Type != Expense {
			continue
		}
		if t.Date.Before(from) || !t.Date.Before(to) {
			continue
		}
		total = total.Add(t.Amount)
	}
	return total
}
