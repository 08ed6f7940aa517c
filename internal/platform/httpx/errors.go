package httpx

import (
	"errors"
	"fmt"
)

// Errors for consuming {success, data, error} APIs, shared by the outbound
// client and the handlers that classify its failures.
var (
	// ErrMalformedResponse marks a non-JSON body (HTML error page, truncated
	// payload). Fatal to the call, never retried on its own.
	ErrMalformedResponse = errors.New("httpx: response is not valid JSON")
	// ErrNotFound maps a 404 or an empty single-resource payload.
	ErrNotFound = errors.New("httpx: resource not found")
)

// RemoteError carries a business-logic failure reported inside a JSON
// envelope (success=false) or a non-2xx status with a JSON body.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("httpx: remote error (status %d)", e.Status)
	}
	return fmt.Sprintf("httpx: %s (status %d)", e.Message, e.Status)
}
