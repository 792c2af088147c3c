package core

// error_messages.go maps technical errors to user-facing messages with codes
// that users can quote to support.
//
//	FILE001  file too large           "file too large", "request body too large"
//	FILE002  not a CSV file           "must be a csv file"
//	FILE004  no file in the request   "no file provided"
//	FILE005  zero-byte upload         "empty file"
//	ING001   header but no data rows  "at least a header and one data row"
//	ING002   every data row rejected  "no valid rows"
//	UPL002   limiter saturated        "too many uploads"
//	UPL003   result expired/unknown   "upload not found"
//	UPL004   request cancelled        "context canceled"
//	UPL005   request timed out        "context deadline exceeded"
//	RATE001  rate limited             "rate limit"
//	ERR000   anything else; check the logs for the technical error
//
// Known sentinels are matched with errors.Is first. Errors from outside the
// service (net/http, chi) are then matched case-insensitively by substring;
// the first match wins.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/aqingest/internal/ingest"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var userMessages = map[string]UserMessage{
	// File checks
	"FILE001": {"File size must be less than 10MB", "Split the file into smaller files", "FILE001"},
	"FILE002": {"File must be a CSV file", "Upload a .csv file exported from the sensor dataset", "FILE002"},
	"FILE004": {"No file provided", "Please select a CSV file to upload", "FILE004"},
	"FILE005": {"The uploaded file is empty", "Please upload a CSV file with data rows", "FILE005"},

	// Ingestion
	"ING001": {"CSV file must contain at least a header and one data row", "Add a header line followed by at least one reading", "ING001"},
	"ING002": {"No valid rows found in CSV file", "Check that Date is YYYY-MM-DD, Time is HH:MM:SS and every row has as many columns as the header", "ING002"},

	// Upload processing
	"UPL002": {"System is busy processing other uploads", "Please wait a moment and try again", "UPL002"},
	"UPL003": {"Upload not found", "The upload result may have expired. Please upload the file again", "UPL003"},
	"UPL004": {"Request was cancelled", "Please try again", "UPL004"},
	"UPL005": {"Request timed out", "Try uploading a smaller file or check your connection", "UPL005"},

	"RATE001": {"Too many requests", "Please wait a moment before trying again", "RATE001"},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

var sentinelCodes = []struct {
	target error
	code   string
}{
	{ErrFileTooLarge, "FILE001"},
	{ErrNotCSV, "FILE002"},
	{ErrNoFile, "FILE004"},
	{ingest.ErrEmptyFile, "FILE005"},
	{ingest.ErrInsufficientRows, "ING001"},
	{ingest.ErrNoValidRows, "ING002"},
	{ErrTooManyUploads, "UPL002"},
	{ErrUploadNotFound, "UPL003"},
	{context.Canceled, "UPL004"},
	{context.DeadlineExceeded, "UPL005"},
}

var patternCodes = []struct {
	pattern string
	code    string
}{
	{"file too large", "FILE001"},
	{"request body too large", "FILE001"},
	{"must be a csv file", "FILE002"},
	{"no file provided", "FILE004"},
	{"empty file", "FILE005"},
	{"at least a header and one data row", "ING001"},
	{"no valid rows", "ING002"},
	{"too many uploads", "UPL002"},
	{"upload not found", "UPL003"},
	{"context canceled", "UPL004"},
	{"context deadline exceeded", "UPL005"},
	{"rate limit", "RATE001"},
}

// MapError converts a technical error to a user-friendly message.
// It returns the zero UserMessage for a nil error and the ERR000 fallback
// when nothing matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelCodes {
		if errors.Is(err, s.target) {
			return userMessages[s.code]
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range patternCodes {
		if strings.Contains(errStr, p.pattern) {
			return userMessages[p.code]
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
