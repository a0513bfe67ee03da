package relay

import (
	"errors"
	"fmt"
)

var (
	// ErrURLRequired is returned when a request carries no target URL.
	ErrURLRequired = errors.New("URL is required")
	// ErrInvalidURL is returned when the target is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid URL")
)

// StatusError reports an origin response outside the 2xx range.
type StatusError struct {
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.StatusText)
}
