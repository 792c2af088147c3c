package ingest

import "strings"

// HeaderKey is the canonical name of a column, derived from its header cell.
// Headers are positional: the Nth key names the Nth field of every data row.
type HeaderKey string

var headerReplacer = strings.NewReplacer("(", "", ")", "", ".", "_")

// NormalizeHeader lower-cases a header cell, drops parentheses and turns dots
// into underscores. "PT08.S1(CO)" becomes "pt08_s1co".
func NormalizeHeader(field string) HeaderKey {
	return HeaderKey(headerReplacer.Replace(strings.ToLower(field)))
}

// NormalizeHeaders normalizes a tokenized header line, preserving positions.
func NormalizeHeaders(fields []string) []HeaderKey {
	keys := make([]HeaderKey, len(fields))
	for i, f := range fields {
		keys[i] = NormalizeHeader(f)
	}
	return keys
}
