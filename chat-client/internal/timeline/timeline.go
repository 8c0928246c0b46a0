// Package timeline holds the ordered, append-only message log.
package timeline

import "github.com/SpaNb4/open-chat/chat-client/internal/domain"

// Timeline preserves arrival order at this client. It never drops,
// reorders or deduplicates entries. It is not safe for concurrent use.
type Timeline struct {
	entries []domain.Entry
}

// New returns an empty timeline.
func New() *Timeline {
	return &Timeline{}
}

// Append adds e at the end.
func (t *Timeline) Append(e domain.Entry) {
	t.entries = append(t.entries, e)
}

// Entries returns the log so far. The slice is capped at its length, so
// later appends never become visible through it and the caller cannot
// append into the timeline's storage. Callers must not modify elements.
func (t *Timeline) Entries() []domain.Entry {
	return t.entries[:len(t.entries):len(t.entries)]
}

// Len returns the number of entries.
func (t *Timeline) Len() int { return len(t.entries) }
