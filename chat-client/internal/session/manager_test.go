package session

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
)

func TestLoginSuccessAnnouncesOnce(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("alice"))
	assert.Equal(t, domain.StateLoggingIn, m.State())

	announce, err := m.Complete(nil)
	require.NoError(t, err)
	assert.True(t, announce)
	assert.Equal(t, domain.StateLoggedIn, m.State())
	assert.Equal(t, "alice", m.Username())

	announce, err = m.Complete(nil)
	require.NoError(t, err)
	assert.False(t, announce, "a second completion must not announce again")

	assert.ErrorIs(t, m.Begin("alice"), domain.ErrAlreadyLoggedIn)
}

func TestBeginRejectsEmptyAndConcurrentLogins(t *testing.T) {
	m := NewManager()
	assert.ErrorIs(t, m.Begin(""), domain.ErrEmptyUsername)
	assert.Equal(t, domain.StateLoggedOut, m.State())

	require.NoError(t, m.Begin("alice"))
	assert.ErrorIs(t, m.Begin("bob"), domain.ErrLoginInProgress)
}

func TestRejectedLoginRecordsServerMessage(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("alice"))

	announce, err := m.Complete(&domain.AuthRejectedError{Status: http.StatusConflict, Message: "Username is already taken"})
	require.NoError(t, err)
	assert.False(t, announce)
	assert.Equal(t, domain.StateLoggedOut, m.State())
	assert.Equal(t, "Username is already taken", m.LastError())
	assert.Nil(t, m.Identity())

	// The user may retry after a rejection.
	require.NoError(t, m.Begin("alice2"))
	announce, err = m.Complete(nil)
	require.NoError(t, err)
	assert.True(t, announce)
	assert.Empty(t, m.LastError())
}

func TestTransportFailureIsSurfacedDistinctly(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("alice"))

	announce, err := m.Complete(errors.New("dial tcp: connection refused"))
	assert.False(t, announce)
	require.ErrorIs(t, err, domain.ErrAuthUnavailable)

	var rejected *domain.AuthRejectedError
	assert.False(t, errors.As(err, &rejected))
	assert.Equal(t, domain.StateLoggedOut, m.State())
	assert.Empty(t, m.LastError())
}

func TestView(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin("alice"))
	_, _ = m.Complete(nil)

	assert.Equal(t, domain.SessionView{State: domain.StateLoggedIn, Username: "alice"}, m.View())
}
