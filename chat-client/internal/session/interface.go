package session

import "context"

// Authenticator performs the login request. A refusal by the endpoint is
// reported as *domain.AuthRejectedError; anything else is a transport-level
// failure.
type Authenticator interface {
	Login(ctx context.Context, username string) error
}
