package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport covers unreachable hosts, timeouts and non-2xx responses.
	ErrTransport = errors.New("transport failure")

	// ErrMissingField means the document did not have the expected structure.
	ErrMissingField = errors.New("missing field")
)

// TransportError carries the URL and HTTP status of a failed fetch
type TransportError struct {
	URL    string
	Status int // 0 when no response was received
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// FieldError names the field that could not be extracted
type FieldError struct {
	Field string
	Err   error // parse error, nil when the element was absent
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("missing field %s: %v", e.Field, e.Err)
	}
	return "missing field " + e.Field
}

func (e *FieldError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMissingField}
	}
	return []error{ErrMissingField, e.Err}
}

// IsRecoverable reports whether err is a scrape failure the caller should
// ride out by keeping prior state.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrMissingField)
}

func missing(field string, err error) error {
	return &FieldError{Field: field, Err: err}
}
