package ingest

import (
	"slices"
	"strings"
	"unicode"
)

// Result is the accumulated output of validating one file.
type Result struct {
	Readings  []SensorReading // Accepted rows, file order
	Errors    []RowError      // Rejected rows, file order
	TotalRows int             // Non-empty data lines processed
}

// Validate tokenizes, coerces and partitions every row of a file.
//
// Blank lines are dropped before numbering. The first remaining line is the
// header. A *RejectionError is returned when fewer than two lines remain
// (InsufficientRows) or when no row is accepted (NoValidRows); in both cases no
// readings are returned.
func Validate(content string) (*Result, error) {
	lines := nonEmptyLines(content)
	if len(lines) < 2 {
		return nil, &RejectionError{Reason: InsufficientRows, TotalRows: max(len(lines)-1, 0)}
	}

	headers := NormalizeHeaders(SplitLine(lines[0]))

	res := &Result{TotalRows: len(lines) - 1}
	for i := 1; i < len(lines); i++ {
		row := i + 1

		fields := SplitLine(lines[i])
		if len(fields) != len(headers) {
			res.Errors = append(res.Errors, RowError{Row: row, Reason: ColumnCountMismatch})
			continue
		}

		reading, ok := CoerceRow(fields, headers)
		if !ok {
			res.Errors = append(res.Errors, RowError{Row: row, Reason: InvalidDataFormat})
			continue
		}
		res.Readings = append(res.Readings, reading)
	}

	if len(res.Readings) == 0 {
		return nil, &RejectionError{
			Reason:    NoValidRows,
			Errors:    firstErrors(res.Errors, MaxRejectErrors),
			TotalRows: res.TotalRows,
		}
	}

	return res, nil
}

// nonEmptyLines splits on '\n' and drops lines that are blank after trimming.
func nonEmptyLines(content string) []string {
	all := strings.Split(content, "\n")
	lines := all[:0]
	for _, l := range all {
		if trimField(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// trimField trims Unicode whitespace and the byte-order mark.
func trimField(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// firstErrors returns a copy of at most n leading errors, or nil when errs is empty.
func firstErrors(errs []RowError, n int) []RowError {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) > n {
		errs = errs[:n]
	}
	return slices.Clone(errs)
}
