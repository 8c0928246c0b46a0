// Package protocol turns user input into outbound commands and inbound
// events into timeline entries.
package protocol

import "strings"

// PrivatePrefix introduces an inline private message: "/pm <user> <text>".
const PrivatePrefix = "/pm "

// CommandKind identifies an outbound command.
type CommandKind int

const (
	SendBroadcast CommandKind = iota + 1
	SendPrivate
)

func (k CommandKind) String() string {
	switch k {
	case SendBroadcast:
		return "broadcast"
	case SendPrivate:
		return "private"
	default:
		return "unknown"
	}
}

// Command is parsed user input.
type Command struct {
	Kind      CommandKind
	Recipient string
	Body      string
}

// Malformed reports a private message with no recipient or no body. Such
// commands are still sent.
func (c Command) Malformed() bool {
	return c.Kind == SendPrivate && (c.Recipient == "" || c.Body == "")
}

// Parse interprets raw input. It returns false when the input is blank.
//
// Input starting with "/pm " is split at the first space after the prefix:
// the recipient is everything before it and the body everything after.
// Without such a space the whole remainder is the recipient and the body is
// empty. Usernames containing spaces cannot be addressed this way.
// Anything else is broadcast unchanged.
func Parse(input string) (Command, bool) {
	if strings.TrimSpace(input) == "" {
		return Command{}, false
	}

	rest, ok := strings.CutPrefix(input, PrivatePrefix)
	if !ok {
		return Command{Kind: SendBroadcast, Body: input}, true
	}

	recipient, body, _ := strings.Cut(rest, " ")
	return Command{Kind: SendPrivate, Recipient: recipient, Body: body}, true
}

// PrivateDraft is the input pre-filled when starting a private message.
func PrivateDraft(username string) string {
	return PrivatePrefix + username + " "
}
