package experiment

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrMissingField indicates a required column was absent from the header or a row.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidEncoding indicates input bytes that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("invalid UTF-8")
)

// MissingFieldError reports a required column that could not be found.
type MissingFieldError struct {
	// Column is the exact header name that was looked up
	Column string
	// Row is the 1-based data row ordinal, or 0 when the header itself lacks the column
	Row int
}

// Error returns a human-readable error message.
func (e *MissingFieldError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("missing column %q in header", e.Column)
	}
	return fmt.Sprintf("missing column %q in row %d", e.Column, e.Row)
}

// Is reports whether target matches this error type.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// InvalidEncodingError reports a CSV field that is not valid UTF-8.
type InvalidEncodingError struct {
	// Row is the 1-based data row ordinal, or 0 for the header
	Row int
	// Field is the 1-based field position within the row
	Field int
}

// Error returns a human-readable error message.
func (e *InvalidEncodingError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("invalid UTF-8 in header field %d", e.Field)
	}
	return fmt.Sprintf("invalid UTF-8 in row %d field %d", e.Row, e.Field)
}

// Is reports whether target matches this error type.
func (e *InvalidEncodingError) Is(target error) bool {
	return target == ErrInvalidEncoding
}
