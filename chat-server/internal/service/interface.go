package service

import (
	"context"
	"errors"

	"github.com/SpaNb4/open-chat/chat-server/internal/hub"
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameTaken    = errors.New("username is already taken")
)

// ChatService implements the server side of the realtime vocabulary.
type ChatService interface {
	// Login checks that username may join.
	Login(ctx context.Context, username string) error
	// HandleMessage applies one frame received from c.
	HandleMessage(ctx context.Context, c *hub.Client, data []byte) error
	// HandleDisconnect removes c from the roster and tells the others.
	HandleDisconnect(ctx context.Context, c *hub.Client) error
}
