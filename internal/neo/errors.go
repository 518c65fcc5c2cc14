package neo

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrConfig marks a missing or invalid client setting. It is fatal at startup.
	ErrConfig = errors.New("configuration error")

	// ErrMalformedPayload marks a feed entry that lacks a required field.
	ErrMalformedPayload = errors.New("malformed feed payload")
)

// FetchError is returned when the feed cannot be reached or its body cannot
// be read or decoded. Unsuccessful HTTP statuses and missing days are not
// reported as errors.
type FetchError struct {
	Op  string // "request", "read" or "decode"
	URL string // request URL with the API key redacted
	Err error
}

func (e *FetchError) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err came from talking to the feed.
func IsTransport(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
