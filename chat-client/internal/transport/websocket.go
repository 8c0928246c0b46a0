package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SpaNb4/open-chat/chat-client/internal/domain"
	"github.com/SpaNb4/open-chat/pkg/log"
)

// Config tunes the websocket pumps.
type Config struct {
	DialTimeout    time.Duration
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

func (c Config) withDefaults() Config {
	if c.DialTimeout <= 0 {
		c.DialTimeout = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.PongWait {
		c.PingInterval = c.PongWait * 9 / 10
	}
	if c.WriteWait <= 0 {
		c.WriteWait = 10 * time.Second
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 4096
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 256
	}
	return c
}

// WebSocket is a Transport over a single gorilla/websocket connection.
// It dials once; a dropped connection is reported on Status and not
// re-established.
type WebSocket struct {
	url    string
	config Config

	conn     *websocket.Conn
	send     chan []byte
	messages chan []byte
	status   chan Status
	done     chan struct{}
	// lost is closed when the current connection drops.
	lost chan struct{}

	mu        sync.Mutex
	connected bool
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWebSocket creates an unconnected transport for url.
func NewWebSocket(url string, cfg Config) *WebSocket {
	cfg = cfg.withDefaults()
	return &WebSocket{
		url:      url,
		config:   cfg,
		send:     make(chan []byte, cfg.SendBuffer),
		messages: make(chan []byte, cfg.SendBuffer),
		status:   make(chan Status, 1),
		done:     make(chan struct{}),
	}
}

// Connect dials the server and starts the read and write pumps. A failed
// dial is also reported on Status.
func (w *WebSocket) Connect(ctx context.Context) error {
	select {
	case <-w.done:
		return fmt.Errorf("%w: transport closed", domain.ErrTransportUnavailable)
	default:
	}
	if w.Connected() {
		return nil
	}

	dialer := websocket.Dialer{HandshakeTimeout: w.config.DialTimeout}
	conn, _, err := dialer.DialContext(ctx, w.url, nil)
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrTransportUnavailable, err)
		w.publish(Status{Connected: false, Err: err})
		return err
	}

	w.mu.Lock()
	w.conn = conn
	w.connected = true
	w.lost = make(chan struct{})
	lost := w.lost
	w.mu.Unlock()
	w.publish(Status{Connected: true})

	l := log.L()
	l.Info().Str("url", w.url).Msg("realtime transport connected")

	w.wg.Add(2)
	go w.readPump(conn)
	go w.writePump(conn, lost)
	return nil
}

// Send queues data for the write pump.
func (w *WebSocket) Send(ctx context.Context, data []byte) error {
	w.mu.Lock()
	connected := w.connected
	w.mu.Unlock()
	if !connected {
		return domain.ErrTransportUnavailable
	}

	select {
	case w.send <- data:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrSendBufferFull
	}
}

// Messages implements Transport.
func (w *WebSocket) Messages() <-chan []byte { return w.messages }

// Status implements Transport.
func (w *WebSocket) Status() <-chan Status { return w.status }

// Connected reports whether the connection is up.
func (w *WebSocket) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

// Close sends a close frame, tears the connection down and waits for both
// pumps to exit.
func (w *WebSocket) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		conn := w.conn
		wasConnected := w.connected
		w.connected = false
		w.mu.Unlock()

		if conn != nil {
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(w.config.WriteWait))
			conn.Close()
		}
		if wasConnected {
			w.publish(Status{Connected: false})
		}
	})
	w.wg.Wait()
	return nil
}

func (w *WebSocket) readPump(conn *websocket.Conn) {
	defer w.wg.Done()

	conn.SetReadLimit(w.config.MaxMessageSize)
	conn.SetReadDeadline(time.Now().Add(w.config.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(w.config.PongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			w.drop(conn, err)
			return
		}

		select {
		case w.messages <- message:
		case <-w.done:
			return
		}
	}
}

func (w *WebSocket) writePump(conn *websocket.Conn, lost <-chan struct{}) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case message := <-w.send:
			conn.SetWriteDeadline(time.Now().Add(w.config.WriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				w.drop(conn, err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(w.config.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				w.drop(conn, err)
				return
			}

		case <-lost:
			return

		case <-w.done:
			return
		}
	}
}

// drop marks the connection down after a pump error. Only the first error
// per connection is reported; errors caused by Close are not.
func (w *WebSocket) drop(conn *websocket.Conn, err error) {
	w.mu.Lock()
	if !w.connected || w.conn != conn {
		w.mu.Unlock()
		return
	}
	w.connected = false
	close(w.lost)
	w.mu.Unlock()

	conn.Close()

	l := log.L()
	if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		l.Warn().Err(err).Msg("realtime transport dropped")
	} else {
		l.Info().Err(err).Msg("realtime transport closed by server")
	}

	w.publish(Status{Connected: false, Err: fmt.Errorf("%w: %v", domain.ErrTransportUnavailable, err)})
}

// publish replaces any unread status with s.
func (w *WebSocket) publish(s Status) {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.status:
	default:
	}
	w.status <- s
}
