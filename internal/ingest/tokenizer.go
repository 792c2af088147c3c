package ingest

import "strings"

// Delimiter separates fields within a line.
const Delimiter = ','

// quoteChar toggles quoted mode. It is never part of a field value and there is
// no escape sequence for a literal quote.
const quoteChar = '"'

// SplitLine splits one line of delimited text into trimmed field strings.
//
// A double quote toggles quoted mode; a delimiter inside quotes is kept as part
// of the field. Unbalanced quotes are not an error. The result always holds at
// least one field.
func SplitLine(line string) []string {
	fields := make([]string, 0, strings.Count(line, string(Delimiter))+1)

	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == quoteChar:
			inQuotes = !inQuotes
		case ch == Delimiter && !inQuotes:
			fields = append(fields, trimField(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}

	return append(fields, trimField(current.String()))
}
