package presence

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
)

func roster(names ...string) []domain.RosterEntry {
	out := make([]domain.RosterEntry, 0, len(names))
	for i, n := range names {
		out = append(out, domain.RosterEntry{UserID: fmt.Sprintf("id-%d", i), Username: n})
	}
	return out
}

func TestApplySnapshotReplacesWholesale(t *testing.T) {
	tr := NewTracker()
	for m := 0; m <= 5; m++ {
		tr.ApplySnapshot(roster("a", "b", "c", "d", "e")[:m])
		assert.Equal(t, m, tr.Len())
	}

	tr.ApplySnapshot(roster("zed"))
	require.Equal(t, 1, tr.Len())
	assert.Equal(t, "zed", tr.Roster()[0].Username, "prior roster must be fully discarded")
}

func TestApplySnapshotDropsRepeatedUserIDs(t *testing.T) {
	tr := NewTracker()
	tr.ApplySnapshot([]domain.RosterEntry{
		{UserID: "1", Username: "alice"},
		{UserID: "1", Username: "alice-again"},
		{UserID: "2", Username: "bob"},
	})
	assert.Equal(t, []domain.RosterEntry{{UserID: "1", Username: "alice"}, {UserID: "2", Username: "bob"}}, tr.Roster())
}

func TestRosterIsNotAliasedToInput(t *testing.T) {
	in := roster("alice", "bob")
	tr := NewTracker()
	tr.ApplySnapshot(in)

	in[0].Username = "mallory"
	assert.Equal(t, "alice", tr.Roster()[0].Username)
}

func TestPeerJoinedAndLeftProduceNotices(t *testing.T) {
	at := time.Unix(100, 0)
	tr := NewTracker()

	joined := tr.OnPeerJoined("bob", roster("alice", "bob"), at)
	assert.Equal(t, domain.NewSystem("bob connected", at), joined)
	assert.Equal(t, 2, tr.Len())

	left := tr.OnPeerLeft(domain.RosterEntry{UserID: "id-1", Username: "bob"}, roster("alice"), at)
	assert.Equal(t, domain.NewSystem("bob disconnected", at), left)
	assert.Equal(t, roster("alice"), tr.Roster())
}

func TestIsSelfComparesUsernames(t *testing.T) {
	me := &domain.Identity{Username: "alice"}
	assert.True(t, IsSelf(domain.RosterEntry{UserID: "x", Username: "alice"}, me))
	assert.True(t, IsSelf(domain.RosterEntry{UserID: "y", Username: "alice"}, me), "name collisions are treated as self")
	assert.False(t, IsSelf(domain.RosterEntry{UserID: "x", Username: "bob"}, me))
	assert.False(t, IsSelf(domain.RosterEntry{Username: "alice"}, nil))
}

func TestPeersExcludesSelf(t *testing.T) {
	tr := NewTracker()
	tr.ApplySnapshot(roster("alice", "bob", "carol"))

	peers := tr.Peers(&domain.Identity{Username: "bob"})
	require.Len(t, peers, 2)
	assert.Equal(t, "alice", peers[0].Username)
	assert.Equal(t, "carol", peers[1].Username)
}
