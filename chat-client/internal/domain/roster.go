package domain

import "github.com/SpaNb4/open-chat/pkg/events"

// Identity is the local actor. Username is never empty.
type Identity struct {
	Username string
}

// RosterEntry is one connected user. UserID is server-assigned and unique;
// Username may collide.
type RosterEntry struct {
	UserID   string
	Username string
}

// RosterFromWire converts wire users to roster entries.
func RosterFromWire(users []events.User) []RosterEntry {
	out := make([]RosterEntry, 0, len(users))
	for _, u := range users {
		out = append(out, RosterEntry{UserID: u.UserID, Username: u.Username})
	}
	return out
}
