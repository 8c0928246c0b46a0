// Package presence owns the live roster of connected users.
//
// The server sends the whole roster with every join and leave, so the
// tracker never merges: each snapshot replaces the previous roster.
package presence

import (
	"time"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
)

// Tracker holds the current roster. It is not safe for concurrent use;
// the orchestrator loop owns it.
type Tracker struct {
	roster []domain.RosterEntry
}

// NewTracker returns a tracker with an empty roster.
func NewTracker() *Tracker {
	return &Tracker{roster: []domain.RosterEntry{}}
}

// ApplySnapshot replaces the roster with entries. Repeated user IDs keep
// their first occurrence.
func (t *Tracker) ApplySnapshot(entries []domain.RosterEntry) {
	next := make([]domain.RosterEntry, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.UserID]; dup {
			continue
		}
		seen[e.UserID] = struct{}{}
		next = append(next, e)
	}
	t.roster = next
}

// OnPeerJoined applies the snapshot delivered with a join and returns the
// notice to show for it.
func (t *Tracker) OnPeerJoined(username string, snapshot []domain.RosterEntry, at time.Time) domain.Entry {
	t.ApplySnapshot(snapshot)
	return domain.NewSystem(username+" connected", at)
}

// OnPeerLeft applies the snapshot delivered with a leave and returns the
// notice to show for it.
func (t *Tracker) OnPeerLeft(peer domain.RosterEntry, snapshot []domain.RosterEntry, at time.Time) domain.Entry {
	t.ApplySnapshot(snapshot)
	return domain.NewSystem(peer.Username+" disconnected", at)
}

// Roster returns the current roster. The slice is shared and must not be
// modified; a later snapshot allocates a new one.
func (t *Tracker) Roster() []domain.RosterEntry {
	return t.roster[:len(t.roster):len(t.roster)]
}

// Len returns the number of connected users.
func (t *Tracker) Len() int { return len(t.roster) }

// IsSelf reports whether entry is the local user.
//
// The comparison is by username, not user ID: the server addresses private
// messages by username, and the local client never learns its own user ID.
// Two users sharing a name are therefore both treated as self.
func IsSelf(entry domain.RosterEntry, identity *domain.Identity) bool {
	return identity != nil && entry.Username == identity.Username
}

// Peers returns the roster entries that are not the local user, in roster
// order. These are the valid targets for a private message.
func (t *Tracker) Peers(identity *domain.Identity) []domain.RosterEntry {
	out := make([]domain.RosterEntry, 0, len(t.roster))
	for _, e := range t.roster {
		if !IsSelf(e, identity) {
			out = append(out, e)
		}
	}
	return out
}
