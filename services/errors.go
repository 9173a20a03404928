package services

import (
	"errors"
	"fmt"
)

var (
	// ErrRowRejected marks a row dropped by the completeness filter or deduplication.
	ErrRowRejected = errors.New("row rejected")
	// ErrFieldUnparseable marks a derived field that could not be parsed from its text.
	ErrFieldUnparseable = errors.New("field unparseable")
	// ErrEmptySample is returned by statistics that need at least one value.
	ErrEmptySample = errors.New("empty sample")
)

// RejectReason says why a row did not make it into the clean table.
type RejectReason string

const (
	RejectIncomplete RejectReason = "incomplete"
	RejectDuplicate  RejectReason = "duplicate"
)

// RowError describes a rejected row. Rows are only counted, but the error
// is available to callers that want to inspect individual rejections.
type RowError struct {
	Index  int
	Reason RejectReason
	Column string
}

func (e *RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("row %d %s: missing %s", e.Index, e.Reason, e.Column)
	}
	return fmt.Sprintf("row %d %s", e.Index, e.Reason)
}

func (e *RowError) Unwrap() error { return ErrRowRejected }

// FieldError describes a single value that could not be parsed.
type FieldError struct {
	Field string
	Value string
	Cause error
}

func (e *FieldError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: cannot parse %q: %v", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("%s: cannot parse %q", e.Field, e.Value)
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *FieldError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrFieldUnparseable, e.Cause}
	}
	return []error{ErrFieldUnparseable}
}

func unparseable(field, value string, cause error) error {
	return &FieldError{Field: field, Value: value, Cause: cause}
}
