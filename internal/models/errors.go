package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrTransitionNotAllowed is returned when a lifecycle mutation is
	// attempted on an order whose current status forbids it. Terminal
	// orders (completed, rejected, deleted) reject every transition.
	ErrTransitionNotAllowed = errors.New("order status does not allow this transition")

	// ErrConcurrentMutation is returned when a mutation targets an order
	// that is absent from the view's cache or already has a mutation in
	// flight. It is a local guard, raised before any network call.
	ErrConcurrentMutation = errors.New("order already has a mutation in flight")

	// ErrStaleResponse marks a list response that was superseded by a
	// later request and therefore discarded. It never reaches the user.
	ErrStaleResponse = errors.New("stale response discarded")

	// ErrNotOrderOwner is returned when a client acts on another client's
	// order.
	ErrNotOrderOwner = errors.New("order belongs to another client")

	// ErrNotAssignedReader is returned when a reader acts on an order
	// assigned to someone else.
	ErrNotAssignedReader = errors.New("order is assigned to another reader")

	// ErrInvalidCredentials is returned by the sandbox login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned by signup when the email is already
	// registered.
	ErrEmailTaken = errors.New("email is already registered")
)

// ServerError is a failure reported by the HTTP collaborator: either a
// non-2xx status or a response envelope with success=false. The message is
// surfaced to the user verbatim when present.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// UserMessage returns the text a notification should show for err: the
// server's message verbatim when there is one, else a generic fallback.
func UserMessage(err error) string {
	var srv *ServerError
	if errors.As(err, &srv) && srv.Message != "" {
		return srv.Message
	}
	return "Something went wrong, please try again"
}
