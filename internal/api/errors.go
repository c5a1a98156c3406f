// Package api provides the Storage Insights API client and error types.
package api

import (
	"errors"
	"fmt"
)

// TransportError reports a connection, DNS, or timeout failure. An
// elapsed per-request timeout is not distinguished from any other
// transport failure.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError reports a non-2xx response. Body carries the response
// body verbatim (best effort) for diagnostics.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// DecodeError reports a 2xx response whose body is not valid JSON.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// MalformedResponseError reports a well-formed JSON response whose shape
// violates the endpoint contract (e.g. a token response without
// result.token). Raw carries the offending response for diagnostics.
type MalformedResponseError struct {
	Context string
	Raw     string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("unexpected %s response structure: %s", e.Context, e.Raw)
}

// IsHTTPStatus reports whether err is an HTTPStatusError with the given
// status code.
func IsHTTPStatus(err error, status int) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == status
}
