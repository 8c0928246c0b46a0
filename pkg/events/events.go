// Package events defines the realtime event vocabulary shared by the chat
// client and the reference server. Every frame is a single JSON object
// whose "type" field names the event.
package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Event names.
const (
	TypeAddUser          = "add user"
	TypeChatMessage      = "chat message"
	TypePrivateMessage   = "private message"
	TypeTyping           = "typing"
	TypeTypingResponse   = "typingResponse"
	TypeUserConnected    = "user connected"
	TypeUserDisconnected = "user disconnected"
)

// ErrUnknownType is returned by Decode for frames with an unrecognised type.
var ErrUnknownType = errors.New("unknown event type")

// User is one roster entry as carried on the wire.
type User struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// BaseMessage is the part common to every frame.
type BaseMessage struct {
	Type string `json:"type"`
}

// AddUser announces the sender after login.
type AddUser struct {
	Type     string `json:"type"`
	Username string `json:"username"`
}

// ChatMessage is a broadcast message. Username is empty for
// server-originated notices.
type ChatMessage struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Username string `json:"username,omitempty"`
}

// PrivateMessage is a directed message.
type PrivateMessage struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Recipient string `json:"recipient"`
	Sender    string `json:"sender"`
}

// Typing is the outbound keystroke notice.
type Typing struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// TypingResponse is a peer's typing notice relayed by the server.
type TypingResponse struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// UserConnected reports a join together with the full roster.
type UserConnected struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Users    []User `json:"users"`
}

// UserDisconnected reports a leave together with the full roster.
type UserDisconnected struct {
	Type  string `json:"type"`
	User  User   `json:"user"`
	Users []User `json:"users"`
}

// NewAddUser builds an "add user" frame.
func NewAddUser(username string) *AddUser {
	return &AddUser{Type: TypeAddUser, Username: username}
}

// NewChatMessage builds a "chat message" frame.
func NewChatMessage(text, username string) *ChatMessage {
	return &ChatMessage{Type: TypeChatMessage, Text: text, Username: username}
}

// NewPrivateMessage builds a "private message" frame.
func NewPrivateMessage(text, recipient, sender string) *PrivateMessage {
	return &PrivateMessage{Type: TypePrivateMessage, Text: text, Recipient: recipient, Sender: sender}
}

// NewTyping builds a "typing" frame.
func NewTyping(text string) *Typing {
	return &Typing{Type: TypeTyping, Text: text}
}

// NewTypingResponse builds a "typingResponse" frame.
func NewTypingResponse(text string) *TypingResponse {
	return &TypingResponse{Type: TypeTypingResponse, Text: text}
}

// NewUserConnected builds a "user connected" frame.
func NewUserConnected(username string, users []User) *UserConnected {
	return &UserConnected{Type: TypeUserConnected, Username: username, Users: nonNil(users)}
}

// NewUserDisconnected builds a "user disconnected" frame.
func NewUserDisconnected(user User, users []User) *UserDisconnected {
	return &UserDisconnected{Type: TypeUserDisconnected, User: user, Users: nonNil(users)}
}

// Encode marshals a frame.
func Encode(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return data, nil
}

// Decode parses a frame into its concrete type. The returned value is one
// of the pointer types declared in this package.
func Decode(data []byte) (any, error) {
	var base BaseMessage
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}

	var msg any
	switch base.Type {
	case TypeAddUser:
		msg = &AddUser{}
	case TypeChatMessage:
		msg = &ChatMessage{}
	case TypePrivateMessage:
		msg = &PrivateMessage{}
	case TypeTyping:
		msg = &Typing{}
	case TypeTypingResponse:
		msg = &TypingResponse{}
	case TypeUserConnected:
		msg = &UserConnected{}
	case TypeUserDisconnected:
		msg = &UserDisconnected{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, base.Type)
	}

	if err := json.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", base.Type, err)
	}
	return msg, nil
}

func nonNil(users []User) []User {
	if users == nil {
		return []User{}
	}
	return users
}
