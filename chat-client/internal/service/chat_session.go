// Package service composes the session, presence, typing and timeline
// owners behind a single event loop.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
	"github.com/SpaNb4/open-chat/chat-client/internal/presence"
	"github.com/SpaNb4/open-chat/chat-client/internal/protocol"
	"github.com/SpaNb4/open-chat/chat-client/internal/session"
	"github.com/SpaNb4/open-chat/chat-client/internal/timeline"
	"github.com/SpaNb4/open-chat/chat-client/internal/transport"
	"github.com/SpaNb4/open-chat/chat-client/internal/typing"
	"github.com/SpaNb4/open-chat/pkg/events"
	"github.com/SpaNb4/open-chat/pkg/log"
)

// ErrClosed is returned by intents issued after the session stopped.
var ErrClosed = errors.New("chat session closed")

// Config holds orchestrator settings.
type Config struct {
	TypingTimeout time.Duration
	// Now stamps timeline entries; defaults to time.Now.
	Now func() time.Time
}

// ChatSession routes transport events to their owners and user intents to
// the transport. All owned state is touched only by the loop goroutine
// started with Run; every other method posts a closure into that loop.
type ChatSession struct {
	transport transport.Transport
	auth      session.Authenticator
	now       func() time.Time

	session  *session.Manager
	presence *presence.Tracker
	typing   *typing.Controller
	timeline *timeline.Timeline

	input          string
	connected      bool
	transportError string

	ops     chan func()
	expired chan uint64
	done    chan struct{}
	stopped chan struct{}
	stop    sync.Once

	mu      sync.RWMutex
	view    View
	subs    map[int]chan View
	nextSub int
	closed  bool
}

// NewChatSession wires a session around an already created transport.
// The caller keeps ownership of t and closes it after Close.
func NewChatSession(t transport.Transport, auth session.Authenticator, cfg Config) *ChatSession {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	s := &ChatSession{
		transport: t,
		auth:      auth,
		now:       now,
		session:   session.NewManager(),
		presence:  presence.NewTracker(),
		timeline:  timeline.New(),
		ops:       make(chan func()),
		expired:   make(chan uint64, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		subs:      make(map[int]chan View),
	}
	s.typing = typing.NewController(cfg.TypingTimeout, s.onTypingExpired)
	s.view = s.snapshot()
	return s
}

// Run processes intents and transport events until ctx is done or Close
// is called.
func (s *ChatSession) Run(ctx context.Context) error {
	defer close(s.stopped)
	defer s.shutdown()

	messages := s.transport.Messages()
	status := s.transport.Status()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.done:
			return nil

		case op := <-s.ops:
			op()

		case data, ok := <-messages:
			if !ok {
				messages = nil
				continue
			}
			s.handleMessage(data)

		case st, ok := <-status:
			if !ok {
				status = nil
				continue
			}
			s.handleStatus(st)

		case gen := <-s.expired:
			if s.typing.Expire(gen) {
				s.publish()
			}
		}
	}
}

// Close stops the loop. It does not close the transport.
func (s *ChatSession) Close() {
	s.stop.Do(func() { close(s.done) })
}

// Wait blocks until Run has returned.
func (s *ChatSession) Wait() { <-s.stopped }

func (s *ChatSession) shutdown() {
	s.stop.Do(func() { close(s.done) })
	s.typing.Stop()

	s.mu.Lock()
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.mu.Unlock()
}

// call runs fn on the loop and returns its error.
func (s *ChatSession) call(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	op := func() { result <- fn() }

	select {
	case s.ops <- op:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	// Once accepted, op always runs to completion on the loop.
	return <-result
}

// SubmitLogin authenticates username. The HTTP request runs on the
// caller's goroutine; the loop keeps applying inbound events meanwhile. A
// rejection by the endpoint is reported through View().Session.LastError
// and returns nil; failing to reach the endpoint returns an error wrapping
// domain.ErrAuthUnavailable. If the join announcement cannot be sent the
// session is still logged in and the send error is returned.
func (s *ChatSession) SubmitLogin(ctx context.Context, username string) error {
	err := s.call(ctx, func() error {
		if err := s.session.Begin(username); err != nil {
			return err
		}
		s.publish()
		return nil
	})
	if err != nil {
		return err
	}

	loginErr := s.auth.Login(ctx, username)

	// The outcome and the join announcement must reach the loop even if ctx
	// ended during the request, otherwise the session would stay in
	// LoggingIn or be logged in without peers knowing.
	loopCtx := context.WithoutCancel(ctx)
	return s.call(loopCtx, func() error {
		announce, err := s.session.Complete(loginErr)
		if announce {
			l := log.L()
			l.Info().Str(log.FieldUsername, username).Msg("logged in")
			if sendErr := s.emit(loopCtx, events.NewAddUser(username)); sendErr != nil {
				l.Warn().Err(sendErr).Str(log.FieldUsername, username).Msg("failed to announce join")
				s.transportError = sendErr.Error()
				err = fmt.Errorf("logged in but failed to announce join: %w", sendErr)
			}
		}
		s.publish()
		return err
	})
}

// Send parses text and emits it as a broadcast or private message. Blank
// input is ignored. The local echo is appended once the transport accepts
// the frame, without waiting for any acknowledgement.
func (s *ChatSession) Send(ctx context.Context, text string) error {
	return s.call(ctx, func() error {
		username := s.session.Username()
		if s.session.State() != domain.StateLoggedIn {
			return domain.ErrNotLoggedIn
		}

		cmd, ok := protocol.Parse(text)
		if !ok {
			return nil
		}
		if cmd.Malformed() {
			l := log.L()
			l.Warn().Str(log.FieldRecipient, cmd.Recipient).Msg("sending private message with empty recipient or body")
		}

		if err := s.emit(ctx, protocol.Outbound(cmd, username)); err != nil {
			return err
		}

		s.timeline.Append(protocol.Echo(cmd, s.now()))
		s.input = ""
		s.publish()
		return nil
	})
}

// Keystroke tells peers the local user is typing. Every call emits a
// notice.
func (s *ChatSession) Keystroke(ctx context.Context) error {
	return s.call(ctx, func() error {
		if s.session.State() != domain.StateLoggedIn {
			return nil
		}
		return s.emit(ctx, events.NewTyping(protocol.TypingNotice(s.session.Username())))
	})
}

// StartPrivateMessageTo pre-fills the input with a private message draft
// for username. Nothing is sent.
func (s *ChatSession) StartPrivateMessageTo(ctx context.Context, username string) error {
	return s.SetInput(ctx, protocol.PrivateDraft(username))
}

// SetInput mirrors the presenter's input box.
func (s *ChatSession) SetInput(ctx context.Context, text string) error {
	return s.call(ctx, func() error {
		s.input = text
		s.publish()
		return nil
	})
}

// View returns the latest published view.
func (s *ChatSession) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// Subscribe returns a channel that receives the view after every change.
// Only the latest view is kept for a slow reader. The channel is closed by
// the returned cancel func or when the session stops.
func (s *ChatSession) Subscribe() (<-chan View, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan View, 1)
	ch <- s.view
	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

func (s *ChatSession) emit(ctx context.Context, msg any) error {
	data, err := events.Encode(msg)
	if err != nil {
		return err
	}
	if err := s.transport.Send(ctx, data); err != nil {
		return fmt.Errorf("failed to send: %w", err)
	}
	return nil
}

// handleMessage routes one inbound frame to the single owner of its event.
func (s *ChatSession) handleMessage(data []byte) {
	l := log.L()

	msg, err := events.Decode(data)
	if err != nil {
		l.Warn().Err(err).Msg("dropping inbound frame")
		return
	}

	at := s.now()
	switch m := msg.(type) {
	case *events.ChatMessage:
		s.timeline.Append(protocol.FormatBroadcast(m.Text, m.Username, at))

	case *events.PrivateMessage:
		s.timeline.Append(protocol.FormatPrivate(m.Text, m.Sender, at))

	case *events.TypingResponse:
		s.typing.Show(m.Text)

	case *events.UserConnected:
		s.timeline.Append(s.presence.OnPeerJoined(m.Username, domain.RosterFromWire(m.Users), at))

	case *events.UserDisconnected:
		peer := domain.RosterEntry{UserID: m.User.UserID, Username: m.User.Username}
		s.timeline.Append(s.presence.OnPeerLeft(peer, domain.RosterFromWire(m.Users), at))

	default:
		l.Debug().Str(log.FieldEvent, fmt.Sprintf("%T", msg)).Msg("ignoring event not meant for clients")
		return
	}

	s.publish()
}

func (s *ChatSession) handleStatus(st transport.Status) {
	s.connected = st.Connected
	s.transportError = ""
	if !st.Connected && st.Err != nil {
		s.transportError = st.Err.Error()
	}
	s.publish()
}

// onTypingExpired runs on the timer goroutine and hands the expiry to the
// loop.
func (s *ChatSession) onTypingExpired(gen uint64) {
	select {
	case s.expired <- gen:
	case <-s.done:
	}
}

func (s *ChatSession) snapshot() View {
	return View{
		Session:        s.session.View(),
		Roster:         s.presence.Roster(),
		Timeline:       s.timeline.Entries(),
		TypingStatus:   s.typing.Status(),
		Input:          s.input,
		Connected:      s.connected,
		TransportError: s.transportError,
	}
}

// publish stores the current view and offers it to every subscriber.
func (s *ChatSession) publish() {
	v := s.snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}
