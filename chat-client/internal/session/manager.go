package session

import (
	"errors"
	"fmt"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
)

// Manager owns the login state machine:
//
//	LoggedOut --Begin--> LoggingIn --Complete(ok)--> LoggedIn
//	LoggingIn --Complete(err)--> LoggedOut
//
// There is no transition out of LoggedIn. Manager is not safe for
// concurrent use; the orchestrator loop owns it.
type Manager struct {
	state     domain.SessionState
	identity  *domain.Identity
	pending   string
	lastError string
}

// NewManager returns a manager in LoggedOut.
func NewManager() *Manager {
	return &Manager{state: domain.StateLoggedOut}
}

// Begin validates username and moves to LoggingIn.
func (m *Manager) Begin(username string) error {
	if username == "" {
		return domain.ErrEmptyUsername
	}
	switch m.state {
	case domain.StateLoggingIn:
		return domain.ErrLoginInProgress
	case domain.StateLoggedIn:
		return domain.ErrAlreadyLoggedIn
	}

	m.state = domain.StateLoggingIn
	m.pending = username
	return nil
}

// Complete applies the outcome of the login request started by Begin.
// announce is true exactly once, on the transition into LoggedIn. A
// rejection by the endpoint is recorded in LastError and is not returned;
// any other failure is returned wrapped with domain.ErrAuthUnavailable.
func (m *Manager) Complete(loginErr error) (announce bool, err error) {
	if m.state != domain.StateLoggingIn {
		return false, nil
	}
	username := m.pending
	m.pending = ""

	if loginErr == nil {
		m.state = domain.StateLoggedIn
		m.identity = &domain.Identity{Username: username}
		m.lastError = ""
		return true, nil
	}

	m.state = domain.StateLoggedOut

	var rejected *domain.AuthRejectedError
	if errors.As(loginErr, &rejected) {
		m.lastError = rejected.Message
		return false, nil
	}

	m.lastError = ""
	if errors.Is(loginErr, domain.ErrAuthUnavailable) {
		return false, loginErr
	}
	return false, fmt.Errorf("%w: %v", domain.ErrAuthUnavailable, loginErr)
}

// State returns the current state.
func (m *Manager) State() domain.SessionState { return m.state }

// Identity returns the local identity, or nil before login succeeds.
func (m *Manager) Identity() *domain.Identity { return m.identity }

// LastError returns the last rejection message from the endpoint.
func (m *Manager) LastError() string { return m.lastError }

// Username returns the logged-in username, or "" before login.
func (m *Manager) Username() string {
	if m.identity == nil {
		return ""
	}
	return m.identity.Username
}

// View returns the read-only session view.
func (m *Manager) View() domain.SessionView {
	return domain.SessionView{
		State:     m.state,
		Username:  m.Username(),
		LastError: m.lastError,
	}
}
