package domain

// SessionState is the login state of the client.
type SessionState int

const (
	StateLoggedOut SessionState = iota
	StateLoggingIn
	StateLoggedIn
)

func (s SessionState) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateLoggingIn:
		return "logging_in"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// SessionView is the read-only session part of the view state.
type SessionView struct {
	State     SessionState
	Username  string
	LastError string
}
