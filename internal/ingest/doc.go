// Package ingest turns the text of an uploaded air-quality CSV file into
// validated sensor readings and a summary report.
//
// The package is pure: it performs no I/O, keeps no state between calls and
// never logs. Every call allocates its own accumulators, so any number of
// uploads can be ingested concurrently without coordination.
//
// # Pipeline
//
// A file flows through five stages:
//
//  1. [SplitLine] tokenizes one line into trimmed fields, honoring double quotes.
//  2. [NormalizeHeaders] turns the first line into positional [HeaderKey] values.
//  3. [CoerceRow] maps a data row onto a [SensorReading], defaulting numerics
//     and enforcing the date/time patterns.
//  4. [Validate] drives the first three stages over the file and partitions rows
//     into accepted readings and [RowError] values.
//  5. [BuildReport] reduces a [Result] to the externally visible [Outcome].
//
// [Ingest] runs the whole pipeline:
//
//	outcome := ingest.Ingest(text)
//	if !outcome.Accepted {
//	    // outcome.Reason is EmptyFile, InsufficientRows or NoValidRows
//	}
//
// # Failure policy
//
// Row-level problems (column-count mismatch, bad date or time) are data: they are
// collected as [RowError] values and the batch continues. Only two conditions
// reject a whole file: fewer than two non-empty lines, and zero accepted rows.
// Those are reported as a [*RejectionError] from [Validate] and as a rejected
// [Outcome] from [Ingest].
//
// # Numeric defaulting
//
// A numeric column that is missing, empty or unparsable yields 0 rather than a
// rejection. Because that makes "sensor reported zero" and "no usable value"
// indistinguishable in the number itself, each [SensorReading] lists the keys it
// defaulted in [SensorReading.Defaulted].
package ingest
