package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/SpaNb4/open-chat/chat-server/internal/hub"
	"github.com/SpaNb4/open-chat/pkg/log"
	"github.com/SpaNb4/open-chat/pkg/pubsub"
)

// RedisRelay delivers locally and publishes every delivery on a shared
// channel. Deliveries published by other instances are applied to the
// local hub; its own are recognised by instance ID and skipped.
type RedisRelay struct {
	local      Deliverer
	bus        pubsub.PubSub
	instanceID string
	channel    string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRedisRelay(local Deliverer, bus pubsub.PubSub, instanceID, room string) *RedisRelay {
	return &RedisRelay{
		local:      local,
		bus:        bus,
		instanceID: instanceID,
		channel:    pubsub.RoomEventsChannel(room),
	}
}

func (r *RedisRelay) Broadcast(ctx context.Context, payload []byte, excludeID string) error {
	r.local.Deliver(&hub.Delivery{Exclude: excludeID, Message: payload})

	event := pubsub.NewEvent(pubsub.DeliveryAll, r.instanceID, payload)
	event.Exclude = excludeID
	return r.publish(ctx, event)
}

func (r *RedisRelay) SendToUser(ctx context.Context, username string, payload []byte) error {
	r.local.Deliver(&hub.Delivery{Target: username, Message: payload})

	event := pubsub.NewEvent(pubsub.DeliveryUser, r.instanceID, payload)
	event.Target = username
	return r.publish(ctx, event)
}

func (r *RedisRelay) publish(ctx context.Context, event *pubsub.Event) error {
	if err := r.bus.Publish(ctx, r.channel, event); err != nil {
		return fmt.Errorf("failed to publish %s delivery: %w", event.Type, err)
	}
	return nil
}

// Start subscribes to the shared channel.
func (r *RedisRelay) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	events, err := r.bus.Subscribe(ctx, r.channel)
	if err != nil {
		cancel()
		return err
	}
	r.cancel = cancel

	r.wg.Add(1)
	go r.consume(events)

	l := log.L()
	l.Info().Str("channel", r.channel).Str(log.FieldInstance, r.instanceID).Msg("relay subscribed")
	return nil
}

func (r *RedisRelay) consume(events <-chan *pubsub.Event) {
	defer r.wg.Done()
	l := log.L()

	for event := range events {
		if event.Origin == r.instanceID {
			continue
		}
		switch event.Type {
		case pubsub.DeliveryAll:
			r.local.Deliver(&hub.Delivery{Exclude: event.Exclude, Message: event.Payload})
		case pubsub.DeliveryUser:
			r.local.Deliver(&hub.Delivery{Target: event.Target, Message: event.Payload})
		default:
			l.Warn().Str("type", event.Type).Str("origin", event.Origin).Msg("unknown relay delivery")
		}
	}
}

// Close unsubscribes and waits for the consumer to stop.
func (r *RedisRelay) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	err := r.bus.Unsubscribe(context.Background(), r.channel)
	r.wg.Wait()
	return err
}
