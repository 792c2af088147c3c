package ingest

import "errors"

// Outcome is the externally visible summary of one ingestion call.
//
// When Accepted is true, RecordsProcessed counts the accepted readings and
// Errors holds at most MaxReportErrors row errors (nil when every row was
// accepted). When Accepted is false, Reason says why the file was rejected and
// Errors holds at most MaxRejectErrors row errors.
type Outcome struct {
	Accepted         bool         `json:"accepted"`
	Reason           RejectReason `json:"reason,omitempty"`
	RecordsProcessed int          `json:"recordsProcessed"`
	TotalRows        int          `json:"totalRows"`
	ErrorCount       int          `json:"errorCount"`
	// DefaultedReadings counts accepted readings with at least one numeric
	// field substituted with 0.
	DefaultedReadings int        `json:"defaultedReadings"`
	Errors            []RowError `json:"errors,omitempty"`
}

// Ingest runs the full pipeline over the text of one file.
// Identical input always yields an identical Outcome.
func Ingest(content string) Outcome {
	out, _ := Process(content)
	return out
}

// Process is Ingest that also returns the validated Result, so callers can
// inspect the accepted readings. The Result is nil when the file is rejected.
func Process(content string) (Outcome, *Result) {
	res, err := Validate(content)
	if err == nil {
		return BuildReport(res), res
	}

	var rej *RejectionError
	if !errors.As(err, &rej) {
		return Outcome{Reason: NoValidRows}, nil
	}
	out := Outcome{
		Reason:    rej.Reason,
		TotalRows: rej.TotalRows,
		Errors:    rej.Errors,
	}
	if rej.Reason == NoValidRows {
		// Every data row failed.
		out.ErrorCount = rej.TotalRows
	}
	return out, nil
}

// BuildReport reduces a Result to an accepted Outcome.
func BuildReport(res *Result) Outcome {
	out := Outcome{
		Accepted:         true,
		RecordsProcessed: len(res.Readings),
		TotalRows:        res.TotalRows,
		ErrorCount:       len(res.Errors),
		Errors:           firstErrors(res.Errors, MaxReportErrors),
	}
	for _, r := range res.Readings {
		if r.HasDefaults() {
			out.DefaultedReadings++
		}
	}
	return out
}

// Rejected builds a rejected Outcome for checks made before Validate runs,
// such as an empty upload.
func Rejected(reason RejectReason) Outcome {
	return Outcome{Reason: reason}
}

// ErrorStrings renders the outcome's row errors as "Row N: reason" lines.
func (o Outcome) ErrorStrings() []string {
	if len(o.Errors) == 0 {
		return nil
	}
	out := make([]string, len(o.Errors))
	for i, e := range o.Errors {
		out[i] = e.String()
	}
	return out
}

// Err returns the sentinel matching a rejected outcome, or nil when accepted.
func (o Outcome) Err() error {
	if o.Accepted {
		return nil
	}
	return (&RejectionError{Reason: o.Reason, Errors: o.Errors}).Unwrap()
}
