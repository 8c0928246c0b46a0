package store

import (
	"context"

	"github.com/SpaNb4/open-chat/pkg/events"
)

// RosterStore holds the announced users in join order.
type RosterStore interface {
	// Add records user. Re-adding an existing user ID keeps its position.
	Add(ctx context.Context, user events.User) error

	// Remove deletes the user with userID and returns it. ok is false if
	// the ID was not on the roster.
	Remove(ctx context.Context, userID string) (user events.User, ok bool, err error)

	// List returns the roster in join order.
	List(ctx context.Context) ([]events.User, error)

	// HasUsername reports whether any user is announced as username.
	HasUsername(ctx context.Context, username string) (bool, error)

	// Close releases the store connection.
	Close() error
}
