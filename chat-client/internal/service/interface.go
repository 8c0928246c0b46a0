package service

import (
	"context"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
)

// View is the read-only state handed to the presentation layer. Slices are
// shared snapshots and must not be modified.
type View struct {
	Session      domain.SessionView
	Roster       []domain.RosterEntry
	Timeline     []domain.Entry
	TypingStatus string
	Input        string
	Connected    bool
	// TransportError describes why the realtime connection is unavailable.
	TransportError string
}

// Session is what a presenter needs from the chat session.
type Session interface {
	SubmitLogin(ctx context.Context, username string) error
	Send(ctx context.Context, text string) error
	Keystroke(ctx context.Context) error
	StartPrivateMessageTo(ctx context.Context, username string) error
	SetInput(ctx context.Context, text string) error
	View() View
	Subscribe() (<-chan View, func())
}
