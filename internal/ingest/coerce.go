package ingest

import (
	"math"
	"regexp"
	"strconv"
)

// Format-only patterns: ASCII digits, exact length, no calendar check.
var (
	datePattern = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
	timePattern = regexp.MustCompile(`^[0-9]{2}:[0-9]{2}:[0-9]{2}$`)
)

// numericPrefix matches the longest leading decimal literal of a cell.
// "12.5ppm" parses as 12.5, "abc" does not parse at all.
var numericPrefix = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?`)

// CoerceRow maps a data row onto a SensorReading using positional header keys.
//
// fields and headers must have the same length; the caller checks this before
// coercion. Numeric cells that are missing, empty or unparsable become 0 and are
// listed in Defaulted. The row is rejected (ok == false) when date or time is
// empty or does not match its pattern. CoerceRow never panics: any unexpected
// failure is reported as a rejection.
func CoerceRow(fields []string, headers []HeaderKey) (reading SensorReading, ok bool) {
	defer func() {
		if recover() != nil {
			reading, ok = SensorReading{}, false
		}
	}()

	// Last occurrence wins when a key repeats.
	values := make(map[HeaderKey]string, len(headers))
	for i, key := range headers {
		values[key] = fields[i]
	}

	for _, f := range NumericFields {
		// The canonical key wins over the UCI alias regardless of column order.
		raw, found := values[f.Key]
		if !found {
			raw = values[f.Alias]
		}

		v, parsed := parseNumeric(raw)
		if !parsed {
			reading.Defaulted = append(reading.Defaulted, f.Key)
		}
		*f.ptr(&reading) = v
	}

	reading.Date = values[KeyDate]
	reading.Time = values[KeyTime]

	if reading.Date == "" || reading.Time == "" {
		return SensorReading{}, false
	}
	if !datePattern.MatchString(reading.Date) || !timePattern.MatchString(reading.Time) {
		return SensorReading{}, false
	}

	return reading, true
}

// parseNumeric returns the value of the leading decimal literal in s.
// It returns (0, false) when s is empty, has no numeric prefix, or the value
// is not finite.
func parseNumeric(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	lit := numericPrefix.FindString(s)
	if lit == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(lit, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if v == 0 {
		// Collapse -0.
		return 0, true
	}
	return v, true
}
