package registration

import (
	"errors"
	"fmt"
	"strings"
)

// APIError is a structured failure returned by the Account API. Validation
// holds the per-field messages from the API's validation-errors list, most
// specific first.
type APIError struct {
	Status     int
	Message    string
	Validation []string
}

func (e *APIError) Error() string {
	if len(e.Validation) > 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, strings.Join(e.Validation, ", "))
	}
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// TransportError means no response was received at all: DNS, dial,
// deadline. Distinguished from APIError so the user sees a connection
// message instead of a server one.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AsAPIError unwraps a structured API failure, if any.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsTransport reports whether no response was received.
func IsTransport(err error) bool {
	var tErr *TransportError
	return errors.As(err, &tErr)
}
