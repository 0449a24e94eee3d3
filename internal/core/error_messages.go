package core

// error_messages.go maps technical errors to coded, user-facing messages.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum upload size
//	          Action: Upload a smaller extract of the dataset
//	          Sentinel: ErrFileTooLarge; Patterns: "request body too large"
//
//	FILE002 - Invalid CSV: File is not valid comma-separated text
//	          Action: Ensure the file has a header row and consistent columns
//	          Sentinel: ErrParse; Patterns: "wrong number of fields", "bare \" in non-quoted-field"
//
//	FILE004 - No file: No file was provided
//	          Action: Attach the dataset in the "file" form field
//	          Sentinel: ErrNoFile
//
//	FILE005 - Empty file: The uploaded file is empty
//	          Action: Upload a CSV file with a header row
//	          Sentinel: ErrEmptyFile
//
//	FILE006 - Unsupported file: Only CSV files allowed
//	          Action: Upload a file with a .csv extension
//	          Sentinel: ErrUnsupportedFile
//
// # Report Errors (RPT001-RPT099)
//
//	RPT001 - Render failed: The report could not be generated
//	         Action: Please try again
//	         Sentinel: ErrRender
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Missing parameter: A required query parameter is missing
//	         Sentinel: ErrMissingParameter
//
//	REQ002 - Timeout: The request took too long
//	         Patterns: "context deadline exceeded", "context canceled"
//
//	REQ003 - Rate limited: Too many requests from this address
//	         Sentinel: ErrRateLimited
//
//	REQ004 - Busy: The server is processing too many uploads
//	         Sentinel: ErrBusy
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse reports bytes that are not valid delimited text.
	ErrParse = errors.New("invalid csv")

	// ErrEmptyFile reports an upload with no content at all.
	ErrEmptyFile = errors.New("empty file")

	// ErrUnsupportedFile reports a filename without the .csv extension.
	ErrUnsupportedFile = errors.New("only csv files allowed")

	// ErrNoFile reports a multipart request without the file field.
	ErrNoFile = errors.New("no file provided")

	// ErrFileTooLarge reports a body over the configured upload limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrMissingParameter reports a required query parameter that was not sent.
	ErrMissingParameter = errors.New("missing required parameter")

	// ErrRender reports a failure while serializing a report.
	ErrRender = errors.New("report render failed")

	// ErrRateLimited reports a client over its per-minute request budget.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgFileTooLarge = UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Upload a smaller extract of the dataset",
		Code:    "FILE001",
	}
	msgInvalidCSV = UserMessage{
		Message: "File is not valid comma-separated text",
		Action:  "Ensure the file has a header row and consistent columns",
		Code:    "FILE002",
	}
	msgNoFile = UserMessage{
		Message: "No file was provided",
		Action:  "Attach the dataset in the \"file\" form field",
		Code:    "FILE004",
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a CSV file with a header row",
		Code:    "FILE005",
	}
	msgUnsupportedFile = UserMessage{
		Message: "Only CSV files allowed",
		Action:  "Upload a file with a .csv extension",
		Code:    "FILE006",
	}
	msgRender = UserMessage{
		Message: "The report could not be generated",
		Action:  "Please try again",
		Code:    "RPT001",
	}
	msgMissingParameter = UserMessage{
		Message: "A required query parameter is missing",
		Action:  "Check the request URL",
		Code:    "REQ001",
	}
	msgTimeout = UserMessage{
		Message: "The request took too long",
		Action:  "Try a smaller file or try again later",
		Code:    "REQ002",
	}
	msgRateLimited = UserMessage{
		Message: "Too many requests from this address",
		Action:  "Wait a minute before retrying",
		Code:    "REQ003",
	}
	msgBusy = UserMessage{
		Message: "The server is processing too many uploads",
		Action:  "Try again in a few seconds",
		Code:    "REQ004",
	}
)

// defaultMessage is returned when no sentinel or pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// sentinelMessages is checked with errors.Is before any pattern matching.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrUnsupportedFile, msgUnsupportedFile},
	{ErrNoFile, msgNoFile},
	{ErrFileTooLarge, msgFileTooLarge},
	{ErrEmptyFile, msgEmptyFile},
	{ErrParse, msgInvalidCSV},
	{ErrMissingParameter, msgMissingParameter},
	{ErrRender, msgRender},
	{ErrRateLimited, msgRateLimited},
	{ErrBusy, msgBusy},
}

// errorPatterns catches errors from libraries that do not wrap a sentinel.
// Matching is case-insensitive and the first hit wins.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"request body too large", msgFileTooLarge},
	{"wrong number of fields", msgInvalidCSV},
	{"non-quoted-field", msgInvalidCSV},
	{"extraneous or missing \" in quoted-field", msgInvalidCSV},
	{"context deadline exceeded", msgTimeout},
	{"context canceled", msgTimeout},
}

// MapError converts a technical error to a user-friendly message.
// Sentinel errors win over text patterns; anything else maps to ERR000.
//
//	err := fmt.Errorf("parse upload: %w", ErrParse)
//	MapError(err).Code // "FILE002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
