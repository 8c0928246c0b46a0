package domain

import "time"

// EntryKind distinguishes the timeline entry variants.
type EntryKind int

const (
	// EntryOutgoing was sent by the local user; Sender is empty.
	EntryOutgoing EntryKind = iota
	// EntryIncoming came from a peer, broadcast or private.
	EntryIncoming
	// EntrySystem is a connect/disconnect or server notice.
	EntrySystem
)

func (k EntryKind) String() string {
	switch k {
	case EntryOutgoing:
		return "outgoing"
	case EntryIncoming:
		return "incoming"
	case EntrySystem:
		return "system"
	default:
		return "unknown"
	}
}

// Entry is one line of the message timeline. Entries are values and are
// never modified once appended.
type Entry struct {
	Kind      EntryKind
	Sender    string
	Text      string
	Timestamp time.Time
}

// NewOutgoing builds an entry for a message sent by the local user.
func NewOutgoing(text string, at time.Time) Entry {
	return Entry{Kind: EntryOutgoing, Text: text, Timestamp: at}
}

// NewIncoming builds an entry for a message from sender.
func NewIncoming(sender, text string, at time.Time) Entry {
	return Entry{Kind: EntryIncoming, Sender: sender, Text: text, Timestamp: at}
}

// NewSystem builds a notice entry.
func NewSystem(text string, at time.Time) Entry {
	return Entry{Kind: EntrySystem, Text: text, Timestamp: at}
}
