package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
	"github.com/SpaNb4/open-chat/pkg/events"
)

var at = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func TestFormatBroadcast(t *testing.T) {
	assert.Equal(t, domain.NewIncoming("bob", "hi", at), FormatBroadcast("hi", "bob", at))
	assert.Equal(t, domain.NewSystem("carol connected", at), FormatBroadcast("carol connected", "", at))
}

func TestFormatPrivate(t *testing.T) {
	e := FormatPrivate("psst", "bob", at)
	assert.Equal(t, domain.EntryIncoming, e.Kind)
	assert.Equal(t, "PM from bob", e.Sender)
	assert.Equal(t, "psst", e.Text)
}

func TestEchoes(t *testing.T) {
	assert.Equal(t, domain.NewOutgoing("PM to bob: hi", at), EchoPrivate("bob", "hi", at))
	assert.Equal(t, domain.NewOutgoing("hello", at), EchoBroadcast("hello", at))

	cmd, _ := Parse("/pm bob")
	assert.Equal(t, domain.NewOutgoing("PM to bob: ", at), Echo(cmd, at))
}

func TestOutbound(t *testing.T) {
	cmd, _ := Parse("/pm bob hi")
	assert.Equal(t, events.NewPrivateMessage("hi", "bob", "alice"), Outbound(cmd, "alice"))

	cmd, _ = Parse("hello all")
	data, err := events.Encode(Outbound(cmd, "alice"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"chat message","text":"hello all","username":"alice"}`, string(data))
}

func TestTypingNotice(t *testing.T) {
	assert.Equal(t, "alice is typing...", TypingNotice("alice"))
}
