package pubsub

import "fmt"

// DefaultRoom is the single shared room every client joins.
const DefaultRoom = "lobby"

// ChannelRoomEvents carries deliveries between chat-server instances.
const ChannelRoomEvents = "chat:room:%s:events"

// Delivery kinds carried in Event.Type.
const (
	// DeliveryAll reaches every client except Event.Exclude.
	DeliveryAll = "all"
	// DeliveryUser reaches clients announced as Event.Target.
	DeliveryUser = "user"
)

// RoomEventsChannel returns the channel name for a room's deliveries.
func RoomEventsChannel(room string) string {
	if room == "" {
		room = DefaultRoom
	}
	return fmt.Sprintf(ChannelRoomEvents, room)
}
