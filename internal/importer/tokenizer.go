package importer

import "strings"

// SplitLine tokenizes one line of CSV text into ordered fields. It is
// quote-aware: commas inside a double-quoted span do not separate fields,
// and a doubled quote inside a quoted span is a literal quote. No trimming
// happens here; header matching trims later. Empty input yields a single
// empty field.
func SplitLine(line string) []string {
	fields := make([]string, 0, 8)
	var b strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				// escaped literal quote
				b.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, b.String())
			b.Reset()
		default:
			b.WriteByte(ch)
		}
	}
	fields = append(fields, b.String())
	return fields
}
