package relay

import (
	"context"

	"github.com/SpaNb4/open-chat/chat-server/internal/hub"
)

// LocalRelay delivers only to clients of this instance.
type LocalRelay struct {
	local Deliverer
}

func NewLocalRelay(local Deliverer) *LocalRelay {
	return &LocalRelay{local: local}
}

func (r *LocalRelay) Broadcast(_ context.Context, payload []byte, excludeID string) error {
	r.local.Deliver(&hub.Delivery{Exclude: excludeID, Message: payload})
	return nil
}

func (r *LocalRelay) SendToUser(_ context.Context, username string, payload []byte) error {
	r.local.Deliver(&hub.Delivery{Target: username, Message: payload})
	return nil
}

func (r *LocalRelay) Start(context.Context) error { return nil }

func (r *LocalRelay) Close() error { return nil }
