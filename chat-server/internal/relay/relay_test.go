package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/SpaNb4/open-chat/chat-server/internal/hub"
	"github.com/SpaNb4/open-chat/pkg/pubsub"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu         sync.Mutex
	deliveries []hub.Delivery
}

func (r *recorder) Deliver(d *hub.Delivery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, *d)
}

func (r *recorder) all() []hub.Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hub.Delivery(nil), r.deliveries...)
}

// memoryBus is a single-channel in-process stand-in for Redis pub/sub.
type memoryBus struct {
	mu         sync.Mutex
	published  []*pubsub.Event
	sub        chan *pubsub.Event
	publishErr error
}

func (b *memoryBus) Publish(_ context.Context, _ string, event *pubsub.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, event)
	return nil
}

func (b *memoryBus) Subscribe(context.Context, string) (<-chan *pubsub.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sub = make(chan *pubsub.Event, 8)
	return b.sub, nil
}

func (b *memoryBus) Unsubscribe(context.Context, string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub != nil {
		close(b.sub)
		b.sub = nil
	}
	return nil
}

func (b *memoryBus) Close() error { return nil }

func (b *memoryBus) inject(event *pubsub.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sub <- event
}

func TestLocalRelay(t *testing.T) {
	rec := &recorder{}
	r := NewLocalRelay(rec)
	ctx := context.Background()

	require.NoError(t, r.Broadcast(ctx, []byte("all"), "c1"))
	require.NoError(t, r.SendToUser(ctx, "bob", []byte("dm")))

	assert.Equal(t, []hub.Delivery{
		{Exclude: "c1", Message: []byte("all")},
		{Target: "bob", Message: []byte("dm")},
	}, rec.all())
}

func TestRedisRelayPublishesWithOrigin(t *testing.T) {
	rec := &recorder{}
	bus := &memoryBus{}
	r := NewRedisRelay(rec, bus, "instance-a", "")
	ctx := context.Background()

	require.NoError(t, r.Broadcast(ctx, []byte(`{"type":"typingResponse"}`), "c1"))
	require.NoError(t, r.SendToUser(ctx, "bob", []byte(`{"type":"private message"}`)))

	require.Len(t, bus.published, 2)
	assert.Equal(t, pubsub.DeliveryAll, bus.published[0].Type)
	assert.Equal(t, "instance-a", bus.published[0].Origin)
	assert.Equal(t, "c1", bus.published[0].Exclude)
	assert.Equal(t, pubsub.DeliveryUser, bus.published[1].Type)
	assert.Equal(t, "bob", bus.published[1].Target)
	assert.Len(t, rec.all(), 2, "local clients are served directly")
}

func TestRedisRelayAppliesRemoteDeliveries(t *testing.T) {
	rec := &recorder{}
	bus := &memoryBus{}
	r := NewRedisRelay(rec, bus, "instance-a", "lobby")
	require.NoError(t, r.Start(context.Background()))

	bus.inject(pubsub.NewEvent(pubsub.DeliveryAll, "instance-a", []byte(`"own"`)))
	remote := pubsub.NewEvent(pubsub.DeliveryUser, "instance-b", []byte(`"remote"`))
	remote.Target = "alice"
	bus.inject(remote)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, hub.Delivery{Target: "alice", Message: []byte(`"remote"`)}, rec.all()[0])

	require.NoError(t, r.Close())
}

func TestRedisRelayReportsPublishFailure(t *testing.T) {
	bus := &memoryBus{publishErr: errors.New("redis down")}
	r := NewRedisRelay(&recorder{}, bus, "instance-a", "")

	err := r.Broadcast(context.Background(), []byte("x"), "")
	assert.ErrorContains(t, err, "redis down")
}
