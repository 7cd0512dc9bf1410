package schema

import (
	"errors"
	"fmt"
)

// Common schema errors.
var (
	// ErrFormat indicates the schema input is malformed.
	ErrFormat = errors.New("malformed schema")

	// ErrUnknownCDE indicates a referenced CDE code is absent from the schema.
	ErrUnknownCDE = errors.New("unknown CDE code")
)

// FormatError wraps ErrFormat with the offending row and reason.
type FormatError struct {
	Row    int // 1-based data row, 0 when the header itself is bad
	Code   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("schema header: %s", e.Reason)
	}
	if e.Code != "" {
		return fmt.Sprintf("schema row %d (code %q): %s", e.Row, e.Code, e.Reason)
	}
	return fmt.Sprintf("schema row %d: %s", e.Row, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// UnknownCDEError wraps ErrUnknownCDE with the missing code.
type UnknownCDEError struct {
	Code string
}

func (e *UnknownCDEError) Error() string {
	return fmt.Sprintf("unknown CDE code: %s", e.Code)
}

func (e *UnknownCDEError) Unwrap() error {
	return ErrUnknownCDE
}

// IsFormat checks if an error is a schema format error.
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsUnknownCDE checks if an error is an unknown CDE error.
func IsUnknownCDE(err error) bool {
	return errors.Is(err, ErrUnknownCDE)
}
