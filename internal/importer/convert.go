package importer

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tally/internal/core"
)

// datePatterns lists accepted date layouts, tried in order. The canonical
// yyyy-MM-dd comes first; extend here to accept more bank formats.
var datePatterns = []string{
	core.DateFormat,
}

// ParseDate parses a raw date value against the accepted patterns.
func ParseDate(raw string) (core.Date, error) {
	trimmed := strings.TrimSpace(raw)
	for _, pattern := range datePatterns {
		if t, err := time.Parse(pattern, trimmed); err == nil {
			return core.DateOf(t), nil
		}
	}
	return core.Date{}, &DateFormatError{Raw: raw}
}

// ParseAmount strips currency symbols and thousands separators, then
// parses a signed fixed-precision decimal. The sign is preserved here; the
// converter uses it for type inference and stores the magnitude.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, &AmountFormatError{Raw: raw}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &AmountFormatError{Raw: raw}
	}
	return d, nil
}

// Row is one validated import row, ready to become a transaction.
// AccountName and CategoryName are unresolved references; the coordinator
// looks them up and leaves the transaction unassigned when they do not
// exist on this side.
type Row struct {
	Date         core.Date
	Title        string
	Amount       core.Money
	Type         core.TransactionType
	Notes        string
	AccountName  string
	CategoryName string
}

// ConvertRow validates one data row against the column map and produces a
// domain row or a typed error. `line` is the 1-based file line used in
// warnings. A present-but-unrecognized type token is tolerated and falls
// back to sign inference, surfaced as a warning rather than a hard error
// since bank exports with signed-amount-only conventions are common.
func ConvertRow(cm ColumnMap, fields []string, line int) (Row, *Warning, error) {
	if len(fields) <= cm.maxRequiredIndex() {
		return Row{}, nil, ErrRowTooShort
	}

	rawDate := fieldValue(cm, fields, FieldDate)
	if strings.TrimSpace(rawDate) == "" {
		return Row{}, nil, &EmptyFieldError{Field: FieldDate}
	}
	date, err := ParseDate(rawDate)
	if err != nil {
		return Row{}, nil, err
	}

	title := strings.TrimSpace(fieldValue(cm, fields, FieldTitle))
	if title == "" {
		return Row{}, nil, &EmptyFieldError{Field: FieldTitle}
	}

	rawAmount := fieldValue(cm, fields, FieldAmount)
	if strings.TrimSpace(rawAmount) == "" {
		return Row{}, nil, &EmptyFieldError{Field: FieldAmount}
	}
	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return Row{}, nil, err
	}

	var warning *Warning
	rawType := fieldValue(cm, fields, FieldType)
	typ, ok := core.ParseTransactionType(rawType)
	if !ok {
		// Fallback policy: non-negative amount means income, negative
		// means expense.
		if amount.IsNegative() {
			typ = core.Expense
		} else {
			typ = core.Income
		}
		if strings.TrimSpace(rawType) != "" {
			warning = &Warning{
				Line:    line,
				Message: "unrecognized type token " + strings.TrimSpace(rawType) + ", inferred " + string(typ) + " from amount sign",
			}
		}
	}

	return Row{
		Date:         date,
		Title:        title,
		Amount:       core.NewMoney(amount.Abs()),
		Type:         typ,
		Notes:        strings.TrimSpace(fieldValue(cm, fields, FieldNotes)),
		AccountName:  strings.TrimSpace(fieldValue(cm, fields, FieldAccount)),
		CategoryName: strings.TrimSpace(fieldValue(cm, fields, FieldCategory)),
	}, warning, nil
}

func fieldValue(cm ColumnMap, fields []string, f Field) string {
	i, ok := cm[f]
	if !ok || i >= len(fields) {
		return ""
	}
	return fields[i]
}
