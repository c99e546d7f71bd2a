package export

import (
	"errors"
	"strings"
	"testing"

	"tally/internal/core"
)

func sampleRow(day, title, amount string, typ core.TransactionType) TransactionRow {
	return TransactionRow{
		Transaction: core.NewTransaction(title, core.MustMoney(amount), core.MustDate(day), typ),
	}
}

func TestSerializeTransactionsSection(t *testing.T) {
	opts := Options{Format: FormatCSV, Transactions: true}
	data := Data{Transactions: []TransactionRow{
		sampleRow("2024-01-15", "Groceries", "125.50", core.Expense),
		sampleRow("2024-01-16", "Salary", "2000", core.Income),
	}}
	out, err := Serialize(opts, data)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if lines[0] != "date,title,amount,type,notes,category,account" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 records, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "2024-01-15,Groceries,125.50,expense") {
		t.Fatalf("unexpected record %q", lines[1])
	}
}

func TestSerializeQuotesCommaFields(t *testing.T) {
	row := sampleRow("2024-01-15", "Dinner, with friends", "60", core.Expense)
	out, err := Serialize(Options{Format: FormatCSV, Transactions: true}, Data{Transactions: []TransactionRow{row}})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if !strings.Contains(string(out), `"Dinner, with friends"`) {
		t.Fatalf("comma-bearing field must be quoted, got:\n%s", out)
	}
}

func TestSerializeEmptySectionHasPlaceholder(t *testing.T) {
	out, err := Serialize(Options{Format: FormatCSV, Transactions: true, Accounts: true}, Data{})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	text := string(out)
	if strings.Count(text, placeholder) != 2 {
		t.Fatalf("each empty section needs a placeholder record:\n%s", text)
	}
}

func TestSerializeMultipleSections(t *testing.T) {
	acct := core.NewAccount("main", core.Checking, "EUR")
	out, err := Serialize(
		Options{Format: FormatCSV, Transactions: true, Accounts: true, Categories: true, Budgets: true},
		Data{
			Transactions: []TransactionRow{sampleRow("2024-01-15", "x", "1", core.Expense)},
			Accounts:     []core.Account{acct},
			Categories:   []core.Category{core.NewCategory("food", "fork")},
			Budgets:      []BudgetRow{{Budget: core.NewBudget("food", core.MustMoney("100"), core.MustDate("2024-01-01")), CategoryName: "food"}},
		})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	text := string(out)
	for _, header := range []string{
		"date,title,amount,type,notes,category,account",
		"name,type,balance,currency",
		"name,icon",
		"name,limit,spent,month,category",
	} {
		if !strings.Contains(text, header) {
			t.Fatalf("missing section header %q in:\n%s", header, text)
		}
	}
	// Sections are blank-line separated.
	if !strings.Contains(text, "\n\n") {
		t.Fatalf("expected blank line between sections:\n%s", text)
	}
}

func TestSerializeRejectsUnsupportedFormats(t *testing.T) {
	for _, format := range []string{FormatPDF, FormatJSON, "xlsx", ""} {
		_, err := Serialize(Options{Format: format, Transactions: true}, Data{})
		var unsupported *UnsupportedFormatError
		if !errors.As(err, &unsupported) {
			t.Fatalf("format %q: expected UnsupportedFormatError, got %v", format, err)
		}
	}
}

func TestFileExtension(t *testing.T) {
	ext, err := FileExtension(FormatCSV)
	if err != nil || ext != ".csv" {
		t.Fatalf("csv extension: %q %v", ext, err)
	}
	if _, err := FileExtension("xlsx"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
