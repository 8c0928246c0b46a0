package domain

import "errors"

var (
	ErrEmptyUsername   = errors.New("username is required")
	ErrLoginInProgress = errors.New("login already in progress")
	ErrAlreadyLoggedIn = errors.New("already logged in")
	ErrNotLoggedIn     = errors.New("not logged in")

	// ErrAuthUnavailable marks login failures that did not come from the
	// endpoint itself, such as an unreachable server.
	ErrAuthUnavailable = errors.New("authentication service unavailable")

	// ErrTransportUnavailable is returned when the realtime connection was
	// never established or has dropped.
	ErrTransportUnavailable = errors.New("realtime transport unavailable")
)

// AuthRejectedError is a login refused by the endpoint. Message is the
// response body, shown to the user verbatim.
type AuthRejectedError struct {
	Status  int
	Message string
}

func (e *AuthRejectedError) Error() string {
	return "login rejected: " + e.Message
}
