// Package core provides the upload service around the ingestion pipeline.
//
// The ingest package turns file text into an Outcome and knows nothing about
// transports. This package does the caller-side work for one uploaded file:
//
//  1. Reject files that are neither named *.csv nor sent as text/csv.
//  2. Enforce the size limit, on the declared size and on the bytes read.
//  3. Hold an [UploadLimiter] slot while the file is processed.
//  4. Decode the body: strip a UTF-8 BOM and repair invalid UTF-8.
//  5. Reject zero-byte files as EmptyFile, otherwise run [ingest.Process].
//  6. Record metrics, log a summary and keep the [UploadResult] for a while.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError]. Each
// message carries a code users can quote to support:
//
//   - FILE001-FILE005: file checks (size, type, missing, empty)
//   - ING001-ING002: whole-file ingestion rejections
//   - UPL002-UPL005: upload processing (busy, not found, cancelled, timeout)
//   - RATE001: rate limiting
//   - ERR000: anything else
package core
