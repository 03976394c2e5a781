package bookstore

import (
	"errors"
	"fmt"
)

// FetchError represents a network failure or a non-success status from the
// catalog API. The store retries these before surfacing them.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog fetch failed (HTTP %d)", e.Status)
	}
	return fmt.Sprintf("catalog fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError wraps a transport-level failure.
func NewFetchError(err error) *FetchError {
	return &FetchError{Err: err}
}

// NewStatusError records a non-2xx response.
func NewStatusError(status int) *FetchError {
	return &FetchError{Status: status}
}

// IsFetchError reports whether err is a FetchError (even when wrapped).
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// FormatError represents a payload that is not a sequence of book records.
// Malformed data stays malformed however often it is fetched, so these are
// never retried.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed catalog payload: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed catalog payload: %s", e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// NewFormatError creates a FormatError with the given reason.
func NewFormatError(reason string, err error) *FormatError {
	return &FormatError{Reason: reason, Err: err}
}

// IsFormatError reports whether err is a FormatError (even when wrapped).
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// ErrNotFound marks a SKU that a valid snapshot does not contain. A miss is
// not a fetch failure; interactive views render a "not found" state, batch
// commands wrap this sentinel.
var ErrNotFound = errors.New("book not found")
