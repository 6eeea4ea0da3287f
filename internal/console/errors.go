package console

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"admin-console/internal/clients"
)

var (
	// ErrDeclined is returned when the operator declines a confirmation.
	ErrDeclined = errors.New("action cancelled")

	// ErrNotFound is returned when an action targets something the view
	// does not hold.
	ErrNotFound = errors.New("not found")
)

// ValidationError lists field-level problems found before any request.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		for _, msg := range e.Fields {
			return msg
		}
	}
	return "Please correct the highlighted fields"
}

// Keys returns the invalid field names in order.
func (e *ValidationError) Keys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Describe turns any console error into the one line shown to the operator.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	var apiErr *clients.APIError
	var transportErr *clients.TransportError

	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return "The server took too long to respond"
	case errors.As(err, &transportErr):
		return fmt.Sprintf("Network error: unable to reach the server (%v)", unwrapAll(transportErr.Err))
	case errors.Is(err, ErrDeclined):
		return "Action cancelled"
	default:
		return capitalize(err.Error())
	}
}

func unwrapAll(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
