package client

import (
	"errors"
	"fmt"
)

// genericErrorMessage is shown when a failure carries no usable server
// message (network unreachable, malformed response, empty error body).
const genericErrorMessage = "something went wrong, check your connection and try again"

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// UserMessage converts any client error into a message fit for display.
// Server-rejected requests surface the server's message verbatim;
// everything else (transport failures, decode errors) collapses to a
// generic retry prompt. Returns "" for a nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return genericErrorMessage
}
