package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaNb4/open-chat/chat-server/internal/config"
	"github.com/SpaNb4/open-chat/chat-server/internal/hub"
	"github.com/SpaNb4/open-chat/chat-server/internal/store"
	"github.com/SpaNb4/open-chat/pkg/events"
)

type sent struct {
	target  string
	exclude string
	msg     any
}

// captureRelay records deliveries instead of sending them.
type captureRelay struct {
	t    *testing.T
	sent []sent
}

func (r *captureRelay) decode(payload []byte) any {
	msg, err := events.Decode(payload)
	require.NoError(r.t, err)
	return msg
}

func (r *captureRelay) Broadcast(_ context.Context, payload []byte, excludeID string) error {
	r.sent = append(r.sent, sent{exclude: excludeID, msg: r.decode(payload)})
	return nil
}

func (r *captureRelay) SendToUser(_ context.Context, username string, payload []byte) error {
	r.sent = append(r.sent, sent{target: username, msg: r.decode(payload)})
	return nil
}

func (r *captureRelay) Start(context.Context) error { return nil }
func (r *captureRelay) Close() error                { return nil }

func (r *captureRelay) last() sent {
	r.t.Helper()
	require.NotEmpty(r.t, r.sent)
	return r.sent[len(r.sent)-1]
}

func newTestService(t *testing.T) (ChatService, *captureRelay, store.RosterStore) {
	roster := store.NewMemoryStore()
	rel := &captureRelay{t: t}
	return NewChatService(roster, rel), rel, roster
}

func frame(t *testing.T, msg any) []byte {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	return data
}

func newClient(id string) *hub.Client {
	return hub.NewClient(id, nil, nil, config.WebSocketConfig{})
}

func TestLogin(t *testing.T) {
	svc, _, roster := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Login(ctx, "  "), ErrUsernameRequired)
	assert.NoError(t, svc.Login(ctx, "alice"))

	require.NoError(t, roster.Add(ctx, events.User{UserID: "c1", Username: "alice"}))
	assert.ErrorIs(t, svc.Login(ctx, "alice"), ErrUsernameTaken)
	assert.NoError(t, svc.Login(ctx, "bob"))
}

func TestAddUserBroadcastsRosterToEveryone(t *testing.T) {
	svc, rel, _ := newTestService(t)
	ctx := context.Background()
	alice, bob := newClient("c1"), newClient("c2")

	require.NoError(t, svc.HandleMessage(ctx, alice, frame(t, events.NewAddUser("alice"))))
	require.NoError(t, svc.HandleMessage(ctx, bob, frame(t, events.NewAddUser("bob"))))

	got := rel.last()
	assert.Empty(t, got.exclude, "the joiner receives its own join")
	assert.Equal(t, events.NewUserConnected("bob", []events.User{
		{UserID: "c1", Username: "alice"},
		{UserID: "c2", Username: "bob"},
	}), got.msg)

	// A second announce from the same connection changes nothing.
	require.NoError(t, svc.HandleMessage(ctx, bob, frame(t, events.NewAddUser("robert"))))
	assert.Len(t, rel.sent, 2)
	assert.Equal(t, "bob", bob.Username())
}

func TestChatAndTypingGoToOthersWithSenderName(t *testing.T) {
	svc, rel, _ := newTestService(t)
	ctx := context.Background()
	alice := newClient("c1")
	require.NoError(t, svc.HandleMessage(ctx, alice, frame(t, events.NewAddUser("alice"))))

	require.NoError(t, svc.HandleMessage(ctx, alice, frame(t, events.NewChatMessage("hi", "spoofed"))))
	assert.Equal(t, sent{exclude: "c1", msg: events.NewChatMessage("hi", "alice")}, rel.last())

	require.NoError(t, svc.HandleMessage(ctx, alice, frame(t, events.NewTyping("alice is typing..."))))
	assert.Equal(t, sent{exclude: "c1", msg: events.NewTypingResponse("alice is typing...")}, rel.last())
}

func TestPrivateMessageTargetsRecipient(t *testing.T) {
	svc, rel, _ := newTestService(t)
	ctx := context.Background()
	alice := newClient("c1")
	require.NoError(t, svc.HandleMessage(ctx, alice, frame(t, events.NewAddUser("alice"))))

	require.NoError(t, svc.HandleMessage(ctx, alice, frame(t, events.NewPrivateMessage("psst", "bob", "mallory"))))
	assert.Equal(t, sent{target: "bob", msg: events.NewPrivateMessage("psst", "bob", "alice")}, rel.last())
}

func TestUnannouncedClientsCannotChat(t *testing.T) {
	svc, rel, _ := newTestService(t)
	ctx := context.Background()
	anon := newClient("c9")

	require.NoError(t, svc.HandleMessage(ctx, anon, frame(t, events.NewChatMessage("hi", "x"))))
	require.NoError(t, svc.HandleMessage(ctx, anon, frame(t, events.NewTyping("x"))))
	require.NoError(t, svc.HandleMessage(ctx, anon, frame(t, events.NewPrivateMessage("hi", "bob", "x"))))
	assert.Empty(t, rel.sent)

	require.NoError(t, svc.HandleDisconnect(ctx, anon))
	assert.Empty(t, rel.sent)
}

func TestRejectsServerEventsAndGarbage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	c := newClient("c1")

	assert.ErrorIs(t, svc.HandleMessage(ctx, c, frame(t, events.NewUserConnected("x", nil))), events.ErrUnknownType)
	assert.Error(t, svc.HandleMessage(ctx, c, []byte("{")))
	assert.ErrorIs(t, svc.HandleMessage(ctx, c, frame(t, events.NewAddUser(" "))), ErrUsernameRequired)
}

func TestDisconnectBroadcastsRemainingRoster(t *testing.T) {
	svc, rel, roster := newTestService(t)
	ctx := context.Background()
	alice, bob := newClient("c1"), newClient("c2")
	require.NoError(t, svc.HandleMessage(ctx, alice, frame(t, events.NewAddUser("alice"))))
	require.NoError(t, svc.HandleMessage(ctx, bob, frame(t, events.NewAddUser("bob"))))

	require.NoError(t, svc.HandleDisconnect(ctx, bob))

	aliceOnly := []events.User{{UserID: "c1", Username: "alice"}}
	assert.Equal(t, sent{
		exclude: "c2",
		msg:     events.NewUserDisconnected(events.User{UserID: "c2", Username: "bob"}, aliceOnly),
	}, rel.last())

	users, err := roster.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, aliceOnly, users)
	assert.NoError(t, svc.Login(ctx, "bob"), "the name is free again")
}
