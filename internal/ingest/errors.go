package ingest

import (
	"errors"
	"fmt"
)

// RowErrorReason explains why a single row was not accepted.
type RowErrorReason string

const (
	ColumnCountMismatch RowErrorReason = "Column count mismatch"
	InvalidDataFormat   RowErrorReason = "Invalid data format"
)

// RowError describes one rejected row. Row is 1-based and counts the header,
// so the first data row is row 2. Blank lines are not counted.
type RowError struct {
	Row    int            `json:"row"`
	Reason RowErrorReason `json:"reason"`
}

// String renders the error as "Row N: reason".
func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Reason)
}

// RejectReason names a whole-file failure.
type RejectReason string

const (
	EmptyFile        RejectReason = "EmptyFile"
	InsufficientRows RejectReason = "InsufficientRows"
	NoValidRows      RejectReason = "NoValidRows"
)

// Sentinels matched by errors.Is against a *RejectionError.
var (
	ErrEmptyFile        = errors.New("empty file")
	ErrInsufficientRows = errors.New("CSV file must contain at least a header and one data row")
	ErrNoValidRows      = errors.New("no valid rows found in CSV file")
)

// Error sample limits. A rejected file carries more diagnostics than a
// partially accepted one.
const (
	MaxRejectErrors = 10
	MaxReportErrors = 5
)

// RejectionError is returned by Validate when the whole file is rejected.
// Errors holds at most MaxRejectErrors row errors, in file order.
type RejectionError struct {
	Reason    RejectReason
	Errors    []RowError
	TotalRows int // Non-empty data lines seen before rejecting
}

func (e *RejectionError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("ingest rejected (%s): %v", e.Reason, e.Unwrap())
	}
	return fmt.Sprintf("ingest rejected (%s): %v; first error: %s", e.Reason, e.Unwrap(), e.Errors[0])
}

// Unwrap returns the sentinel for the rejection reason.
func (e *RejectionError) Unwrap() error {
	switch e.Reason {
	case EmptyFile:
		return ErrEmptyFile
	case InsufficientRows:
		return ErrInsufficientRows
	case NoValidRows:
		return ErrNoValidRows
	default:
		return nil
	}
}
