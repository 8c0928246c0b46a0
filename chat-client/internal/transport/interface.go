// Package transport provides the persistent realtime connection the chat
// session talks through.
package transport

import (
	"context"
	"errors"
)

// ErrSendBufferFull is returned when outbound frames are produced faster
// than the connection drains them.
var ErrSendBufferFull = errors.New("transport send buffer full")

// Status is a connection state change.
type Status struct {
	Connected bool
	// Err is why the connection is down, nil after a clean close.
	Err error
}

// Transport is a persistent, bidirectional channel of JSON frames. It is
// owned by whoever created it; consumers only send and receive.
type Transport interface {
	// Send queues one frame. It does not wait for the frame to be written.
	Send(ctx context.Context, data []byte) error
	// Messages delivers inbound frames in arrival order.
	Messages() <-chan []byte
	// Status delivers connection state changes, latest first; a slow
	// reader only misses superseded states.
	Status() <-chan Status
	Close() error
}
