package importer

import "strings"

// Field is a semantic column in an import file.
type Field string

const (
	FieldDate     Field = "date"
	FieldTitle    Field = "title"
	FieldAmount   Field = "amount"
	FieldType     Field = "type"
	FieldNotes    Field = "notes"
	FieldAccount  Field = "account"
	FieldCategory Field = "category"
)

// RequiredFields must all be resolvable from the header for an import to
// proceed. Their absence is enforced by the coordinator, not the mapper.
var RequiredFields = []Field{FieldDate, FieldAmount, FieldTitle}

// synonyms maps normalized header names to semantic fields. Unknown
// headers are simply ignored.
var synonyms = map[string]Field{
	"date":             FieldDate,
	"transaction date": FieldDate,
	"title":            FieldTitle,
	"description":      FieldTitle,
	"transaction":      FieldTitle,
	"name":             FieldTitle,
	"amount":           FieldAmount,
	"value":            FieldAmount,
	"balance":          FieldAmount,
	"type":             FieldType,
	"transaction type": FieldType,
	"notes":            FieldNotes,
	"memo":             FieldNotes,
	"comments":         FieldNotes,
	"account":          FieldAccount,
	"account name":     FieldAccount,
	"category":         FieldCategory,
	"category name":    FieldCategory,
}

// ColumnMap resolves semantic fields to column indexes in a header row.
type ColumnMap map[Field]int

// MapHeader matches header names case-insensitively and
// whitespace-trimmed against the synonym table. It never fails; a file
// with no recognizable columns simply yields an empty map. When two
// headers map to the same field the first one wins.
func MapHeader(header []string) ColumnMap {
	cm := make(ColumnMap)
	for i, h := range header {
		normalized := strings.ToLower(strings.TrimSpace(h))
		field, ok := synonyms[normalized]
		if !ok {
			continue
		}
		if _, taken := cm[field]; taken {
			continue
		}
		cm[field] = i
	}
	return cm
}

// Missing returns the required fields absent from the map.
func (cm ColumnMap) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if _, ok := cm[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// maxRequiredIndex is the highest column index among mapped required
// fields; rows shorter than this cannot be converted.
func (cm ColumnMap) maxRequiredIndex() int {
	max := -1
	for _, f := range RequiredFields {
		if i, ok := cm[f]; ok && i > max {
			max = i
		}
	}
	return max
}
