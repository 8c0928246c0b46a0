package protocol

import (
	"time"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
	"github.com/SpaNb4/open-chat/pkg/events"
)

// PrivateFromPrefix marks an incoming private message's sender.
const PrivateFromPrefix = "PM from"

// FormatBroadcast turns an inbound chat message into an entry. Messages
// with no sender are server notices.
func FormatBroadcast(text, sender string, at time.Time) domain.Entry {
	if sender == "" {
		return domain.NewSystem(text, at)
	}
	return domain.NewIncoming(sender, text, at)
}

// FormatPrivate turns an inbound private message into an entry. The model
// has no private flag; the sender label carries it.
func FormatPrivate(text, sender string, at time.Time) domain.Entry {
	return domain.NewIncoming(PrivateFromPrefix+" "+sender, text, at)
}

// EchoPrivate is the local copy of a sent private message.
func EchoPrivate(recipient, body string, at time.Time) domain.Entry {
	return domain.NewOutgoing("PM to "+recipient+": "+body, at)
}

// EchoBroadcast is the local copy of a sent broadcast.
func EchoBroadcast(body string, at time.Time) domain.Entry {
	return domain.NewOutgoing(body, at)
}

// TypingNotice is the text peers see while username types.
func TypingNotice(username string) string {
	return username + " is typing..."
}

// Outbound returns the wire frame for cmd sent by sender.
func Outbound(cmd Command, sender string) any {
	if cmd.Kind == SendPrivate {
		return events.NewPrivateMessage(cmd.Body, cmd.Recipient, sender)
	}
	return events.NewChatMessage(cmd.Body, sender)
}

// Echo returns the local timeline entry for cmd.
func Echo(cmd Command, at time.Time) domain.Entry {
	if cmd.Kind == SendPrivate {
		return EchoPrivate(cmd.Recipient, cmd.Body, at)
	}
	return EchoBroadcast(cmd.Body, at)
}
