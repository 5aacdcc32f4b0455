package convert

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrInputNotFound indicates the input CSV path does not exist.
	ErrInputNotFound = errors.New("input not found")

	// ErrConversion indicates a read, parse or write failure during conversion.
	ErrConversion = errors.New("conversion error")
)

// Stages reported by ConversionError.
const (
	StageRead   = "read"
	StageParse  = "parse"
	StageEncode = "encode"
	StageWrite  = "write"
	StageStat   = "stat"
)

// InputNotFoundError is returned before any parsing when the input path is missing.
type InputNotFoundError struct {
	Path string
}

// Error returns a human-readable error message.
func (e *InputNotFoundError) Error() string {
	return "CSV file not found: " + e.Path
}

// Is reports whether target matches this error type.
func (e *InputNotFoundError) Is(target error) bool {
	return target == ErrInputNotFound
}

// ConversionError wraps any other failure, tagged with the stage it occurred in.
type ConversionError struct {
	// Stage is one of the Stage* constants
	Stage string
	// Path is the file involved, if any
	Path string
	// Cause is the underlying error
	Cause error
}

// Error returns a human-readable error message.
func (e *ConversionError) Error() string {
	msg := e.Stage + " failed"
	if e.Path != "" {
		msg += fmt.Sprintf(" for %s", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
}
