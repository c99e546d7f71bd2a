package importer

import (
	"errors"
	"testing"

	"tally/internal/core"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"125.50", "125.5", true},
		{"$125.50", "125.5", true},
		{"1,234.56", "1234.56", true},
		{"$1,234,567.89", "1234567.89", true},
		{"-42.00", "-42", true},
		{" 10 ", "10", true},
		{"", "", false},
		{"$", "", false},
		{"12.3.4", "", false},
		{"ten", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.want {
				t.Fatalf("%q: expected %s, got %s (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		var amountErr *AmountFormatError
		if !errors.As(err, &amountErr) {
			t.Fatalf("%q: expected AmountFormatError, got %v", tc.in, err)
		}
	}
}

func TestParseDateRejectsOtherLayouts(t *testing.T) {
	if _, err := ParseDate("2024-01-15"); err != nil {
		t.Fatalf("canonical layout must parse: %v", err)
	}
	var dateErr *DateFormatError
	if _, err := ParseDate("15/01/2024"); !errors.As(err, &dateErr) {
		t.Fatalf("expected DateFormatError, got %v", err)
	}
}

func header(fields ...string) ColumnMap { return MapHeader(fields) }

func TestConvertRowCleanIncome(t *testing.T) {
	cm := header("date", "amount", "description")
	row, warn, err := ConvertRow(cm, []string{"2024-01-15", "125.50", "Groceries"}, 2)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if warn != nil {
		t.Fatalf("no type column present: no warning expected, got %v", warn)
	}
	// No type column: sign inference makes a non-negative amount income.
	if row.Type != core.Income {
		t.Fatalf("expected income, got %s", row.Type)
	}
	if !row.Amount.Equal(core.MustMoney("125.50")) {
		t.Fatalf("amount: got %s", row.Amount)
	}
	if row.Title != "Groceries" || row.Date.String() != "2024-01-15" {
		t.Fatalf("unexpected row %+v", row)
	}
}

func TestConvertRowNegativeAmountInfersExpense(t *testing.T) {
	cm := header("date", "amount", "description")
	row, _, err := ConvertRow(cm, []string{"2024-01-15", "-42.00", "Petrol"}, 2)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if row.Type != core.Expense {
		t.Fatalf("expected expense, got %s", row.Type)
	}
	if row.Amount.IsNegative() {
		t.Fatalf("amount must be stored as magnitude, got %s", row.Amount)
	}
}

func TestConvertRowExplicitTypeWins(t *testing.T) {
	cm := header("date", "amount", "description", "type")
	row, warn, err := ConvertRow(cm, []string{"2024-01-15", "42.00", "Refund", "withdrawal"}, 2)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if warn != nil {
		t.Fatalf("recognized token: no warning expected, got %v", warn)
	}
	if row.Type != core.Expense {
		t.Fatalf("expected expense from explicit token, got %s", row.Type)
	}
}

func TestConvertRowUnrecognizedTypeWarnsAndFallsBack(t *testing.T) {
	cm := header("date", "amount", "description", "type")
	row, warn, err := ConvertRow(cm, []string{"2024-01-15", "42.00", "Mystery", "purchase"}, 5)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if warn == nil || warn.Line != 5 {
		t.Fatalf("expected warning for unrecognized token, got %v", warn)
	}
	if row.Type != core.Income {
		t.Fatalf("expected sign-inferred income, got %s", row.Type)
	}
}

func TestConvertRowErrors(t *testing.T) {
	cm := header("date", "amount", "description")

	if _, _, err := ConvertRow(cm, []string{"2024-01-15", "1.00"}, 2); !errors.Is(err, ErrRowTooShort) {
		t.Fatalf("expected ErrRowTooShort, got %v", err)
	}

	var dateErr *DateFormatError
	if _, _, err := ConvertRow(cm, []string{"bad-date", "10", "x"}, 2); !errors.As(err, &dateErr) {
		t.Fatalf("expected DateFormatError, got %v", err)
	}

	var amountErr *AmountFormatError
	if _, _, err := ConvertRow(cm, []string{"2024-01-15", "lots", "x"}, 2); !errors.As(err, &amountErr) {
		t.Fatalf("expected AmountFormatError, got %v", err)
	}

	var emptyErr *EmptyFieldError
	if _, _, err := ConvertRow(cm, []string{"2024-01-15", "10", "  "}, 2); !errors.As(err, &emptyErr) {
		t.Fatalf("expected EmptyFieldError, got %v", err)
	}
	if emptyErr.Field != FieldTitle {
		t.Fatalf("expected title field, got %s", emptyErr.Field)
	}
}
