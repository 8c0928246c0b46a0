// Package relay fans encoded frames out to the clients of this instance
// and, when configured, of every other instance.
package relay

import (
	"context"

	"github.com/SpaNb4/open-chat/chat-server/internal/hub"
)

// Relay delivers encoded frames to connected clients.
type Relay interface {
	// Broadcast reaches every client except the one with excludeID.
	Broadcast(ctx context.Context, payload []byte, excludeID string) error
	// SendToUser reaches every client announced as username.
	SendToUser(ctx context.Context, username string, payload []byte) error
	// Start begins applying deliveries from other instances.
	Start(ctx context.Context) error
	Close() error
}

// Deliverer is the local side of a relay.
type Deliverer interface {
	Deliver(d *hub.Delivery)
}
