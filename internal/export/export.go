// Package export renders a filtered view of the ledger as sectioned CSV
// text. Output is deterministic: fixed headers, stable record order,
// RFC-4180 quoting for fields containing commas or quotes.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"tally/internal/core"
)

// Recognized format identifiers. Only CSV is implemented by this core;
// pdf and json are reserved names callers may probe for.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// UnsupportedFormatError reports a requested format this serializer does
// not implement.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported export format %q", e.Format)
}

// placeholder distinguishes "ran successfully, no data" from a silently
// failed export.
const placeholder = "no records in range"

// Section headers, fixed per entity kind.
var (
	transactionHeader = []string{"date", "title", "amount", "type", "notes", "category", "account"}
	accountHeader     = []string{"name", "type", "balance", "currency"}
	categoryHeader    = []string{"name", "icon"}
	budgetHeader      = []string{"name", "limit", "spent", "month", "category"}
)

// Options selects the date range, the entity kinds and the format.
type Options struct {
	From, To     core.Date // [From, To)
	Transactions bool
	Accounts     bool
	Categories   bool
	Budgets      bool
	Format       string
	Encrypt      bool
}

// TransactionRow is a transaction with its weak references resolved to
// names and its notes already decrypted, ready for serialization.
type TransactionRow struct {
	Transaction  core.Transaction
	Notes        string
	CategoryName string
	AccountName  string
}

// BudgetRow is a budget with its category reference resolved to a name.
type BudgetRow struct {
	Budget       core.Budget
	CategoryName string
}

// Data is the projection of the ledger an export run serializes.
type Data struct {
	Transactions []TransactionRow
	Accounts     []core.Account
	Categories   []core.Category
	Budgets      []BudgetRow
}

// FileExtension returns the file extension for a recognized format.
func FileExtension(format string) (string, error) {
	switch format {
	case FormatCSV, FormatPDF, FormatJSON:
		return "." + format, nil
	default:
		return "", &UnsupportedFormatError{Format: format}
	}
}

// Serialize renders the selected sections. Only the CSV format is
// implemented; requesting any other recognized identifier fails with
// UnsupportedFormatError before any output is produced.
func Serialize(opts Options, data Data) ([]byte, error) {
	if opts.Format != FormatCSV {
		return nil, &UnsupportedFormatError{Format: opts.Format}
	}

	var buf bytes.Buffer
	first := true
	section := func(header []string, records [][]string) error {
		if !first {
			buf.WriteByte('\n')
		}
		first = false
		w := csv.NewWriter(&buf)
		if err := w.Write(header); err != nil {
			return err
		}
		if len(records) == 0 {
			if err := w.Write([]string{placeholder}); err != nil {
				return err
			}
		}
		for _, rec := range records {
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	}

	if opts.Transactions {
		records := make([][]string, 0, len(data.Transactions))
		for _, row := range data.Transactions {
			t := row.Transaction
			records = append(records, []string{
				t.Date.String(), t.Title, t.Amount.StringFixed(), string(t.Type),
				row.Notes, row.CategoryName, row.AccountName,
			})
		}
		if err := section(transactionHeader, records); err != nil {
			return nil, fmt.Errorf("serialize transactions: %w", err)
		}
	}
	if opts.Accounts {
		records := make([][]string, 0, len(data.Accounts))
		for _, a := range data.Accounts {
			records = append(records, []string{
				a.Name, string(a.Type), a.Balance.StringFixed(), a.CurrencyCode,
			})
		}
		if err := section(accountHeader, records); err != nil {
			return nil, fmt.Errorf("serialize accounts: %w", err)
		}
	}
	if opts.Categories {
		records := make([][]string, 0, len(data.Categories))
		for _, c := range data.Categories {
			records = append(records, []string{c.Name, c.IconName})
		}
		if err := section(categoryHeader, records); err != nil {
			return nil, fmt.Errorf("serialize categories: %w", err)
		}
	}
	if opts.Budgets {
		records := make([][]string, 0, len(data.Budgets))
		for _, row := range data.Budgets {
			b := row.Budget
			records = append(records, []string{
				b.Name, b.LimitAmount.StringFixed(), b.SpentAmount.StringFixed(),
				b.Month.String(), row.CategoryName,
			})
		}
		if err := section(budgetHeader, records); err != nil {
			return nil, fmt.Errorf("serialize budgets: %w", err)
		}
	}

	return buf.Bytes(), nil
}
