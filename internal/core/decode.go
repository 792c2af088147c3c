package core

// decode.go turns an upload body into text for the ingestion pipeline.
//
// The body is counted as it is read so an oversized upload fails with
// ErrFileTooLarge even when its declared size was wrong. Decoding strips a
// leading UTF-8 byte-order mark and replaces invalid UTF-8 with U+FFFD.

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrFileTooLarge is returned when an upload exceeds the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// countingReader tracks raw bytes read and fails once limit is exceeded.
// A non-positive limit disables the check.
type countingReader struct {
	reader    io.Reader
	limit     int64
	BytesRead int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	if r.limit > 0 && r.BytesRead > r.limit {
		return n, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, r.limit)
	}
	return n, err
}

// NewTextReader wraps r with BOM stripping and UTF-8 repair.
func NewTextReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
}

// ReadText reads all of r as text. It returns the decoded text and the
// number of raw bytes consumed.
func ReadText(r io.Reader, limit int64) (string, int64, error) {
	counter := &countingReader{reader: r, limit: limit}

	var sb strings.Builder
	if _, err := io.Copy(&sb, NewTextReader(counter)); err != nil {
		return "", counter.BytesRead, err
	}
	return sb.String(), counter.BytesRead, nil
}
