package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/SpaNb4/open-chat/chat-server/internal/hub"
	"github.com/SpaNb4/open-chat/chat-server/internal/relay"
	"github.com/SpaNb4/open-chat/chat-server/internal/store"
	"github.com/SpaNb4/open-chat/pkg/events"
	"github.com/SpaNb4/open-chat/pkg/log"
)

type chatService struct {
	roster store.RosterStore
	relay  relay.Relay
}

func NewChatService(roster store.RosterStore, r relay.Relay) ChatService {
	return &chatService{roster: roster, relay: r}
}

func (s *chatService) Login(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}

	taken, err := s.roster.HasUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}
	return nil
}

func (s *chatService) HandleMessage(ctx context.Context, c *hub.Client, data []byte) error {
	msg, err := events.Decode(data)
	if err != nil {
		return err
	}

	switch m := msg.(type) {
	case *events.AddUser:
		return s.handleAddUser(ctx, c, strings.TrimSpace(m.Username))

	case *events.ChatMessage:
		sender := c.Username()
		if sender == "" {
			return s.ignore(c, events.TypeChatMessage)
		}
		return s.broadcast(ctx, events.NewChatMessage(m.Text, sender), c.ID)

	case *events.PrivateMessage:
		sender := c.Username()
		if sender == "" {
			return s.ignore(c, events.TypePrivateMessage)
		}
		return s.sendTo(ctx, m.Recipient, events.NewPrivateMessage(m.Text, m.Recipient, sender))

	case *events.Typing:
		if c.Username() == "" {
			return s.ignore(c, events.TypeTyping)
		}
		return s.broadcast(ctx, events.NewTypingResponse(m.Text), c.ID)

	default:
		return fmt.Errorf("%w: %T is server-originated", events.ErrUnknownType, msg)
	}
}

func (s *chatService) handleAddUser(ctx context.Context, c *hub.Client, username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if !c.Announce(username) {
		return s.ignore(c, events.TypeAddUser)
	}

	user := events.User{UserID: c.ID, Username: username}
	if err := s.roster.Add(ctx, user); err != nil {
		return err
	}
	users, err := s.roster.List(ctx)
	if err != nil {
		return err
	}

	l := log.Ctx(ctx)
	l.Info().Str(log.FieldClientID, c.ID).Str(log.FieldUsername, username).Int("online", len(users)).Msg("user joined")

	return s.broadcast(ctx, events.NewUserConnected(username, users), "")
}

func (s *chatService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	if c.Username() == "" {
		return nil
	}

	user, ok, err := s.roster.Remove(ctx, c.ID)
	if err != nil || !ok {
		return err
	}
	users, err := s.roster.List(ctx)
	if err != nil {
		return err
	}

	l := log.Ctx(ctx)
	l.Info().Str(log.FieldClientID, c.ID).Str(log.FieldUsername, user.Username).Int("online", len(users)).Msg("user left")

	return s.broadcast(ctx, events.NewUserDisconnected(user, users), c.ID)
}

func (s *chatService) broadcast(ctx context.Context, msg any, excludeID string) error {
	data, err := events.Encode(msg)
	if err != nil {
		return err
	}
	return s.relay.Broadcast(ctx, data, excludeID)
}

func (s *chatService) sendTo(ctx context.Context, username string, msg any) error {
	data, err := events.Encode(msg)
	if err != nil {
		return err
	}
	return s.relay.SendToUser(ctx, username, data)
}

func (s *chatService) ignore(c *hub.Client, event string) error {
	l := log.L()
	l.Debug().Str(log.FieldClientID, c.ID).Str(log.FieldEvent, event).Msg("ignoring event from client in wrong state")
	return nil
}
