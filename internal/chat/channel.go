package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/gorilla/websocket"
	"github.com/rfmelo/barbearia-client/internal/metrics"
	"github.com/rfmelo/barbearia-client/pkg/observability"
)

// ErrNotConnected is returned by Emit while the channel is down. Callers
// treat it as transient; the channel reconnects on its own.
var ErrNotConnected = errors.New("channel not connected")

// Handler receives the raw payload of one event.
type Handler func(data json.RawMessage)

// Channel is the bidirectional event transport the session talks to. Every
// registration returns an unsubscribe func so owners can release their
// handlers on close.
type Channel interface {
	Connect(ctx context.Context) error
	Close() error
	Emit(event string, payload any) error
	On(event string, h Handler) (off func())
	OnConnect(fn func()) (off func())
	OnDisconnect(fn func(err error)) (off func())
}

// WSChannel is the gorilla/websocket implementation. Events travel as JSON
// envelopes, one per websocket message. Reconnection lives here: after a read
// failure the channel redials with backoff and fires connect handlers again.
const connectAttempts = 10

type WSChannel struct {
	url           string
	header        http.Header
	dialer        *websocket.Dialer
	log           *observability.Logger
	retryDelay    time.Duration
	retryMaxDelay time.Duration

	mu           sync.Mutex
	conn         *websocket.Conn
	closed       bool
	nextID       int
	handlers     map[string]map[int]Handler
	connectFns   map[int]func()
	disconnectFn map[int]func(error)
}

// WSOption configures a WSChannel.
type WSOption func(*WSChannel)

// WithChannelLogger sets the channel logger.
func WithChannelLogger(log *observability.Logger) WSOption {
	return func(c *WSChannel) { c.log = log }
}

// WithSessionToken sends the session cookie on the upgrade request.
func WithSessionToken(token string) WSOption {
	return func(c *WSChannel) {
		c.header.Set("Cookie", "session="+token)
	}
}

// WithDialBackoff overrides the 1s..30s redial backoff window.
func WithDialBackoff(delay, maxDelay time.Duration) WSOption {
	return func(c *WSChannel) {
		c.retryDelay = delay
		c.retryMaxDelay = maxDelay
	}
}

// NewWSChannel creates a disconnected channel for the given ws:// URL.
func NewWSChannel(url string, opts ...WSOption) *WSChannel {
	c := &WSChannel{
		url:           url,
		header:        http.Header{},
		dialer:        &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:           observability.NewLogger("chat.channel"),
		retryDelay:    time.Second,
		retryMaxDelay: 30 * time.Second,
		handlers:      make(map[string]map[int]Handler),
		connectFns:    make(map[int]func()),
		disconnectFn:  make(map[int]func(error)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect dials the server, retrying with backoff until the context is
// cancelled or the channel is closed. On success it fires connect handlers
// and starts the read loop. The initial dial is capped at a few attempts so
// a bad URL or dead server surfaces as an error instead of hanging.
func (c *WSChannel) Connect(ctx context.Context) error {
	return c.dial(ctx, connectAttempts)
}

// dial runs the backoff loop. attempts of 0 retries until the dial succeeds,
// the context is cancelled or the channel is closed.
func (c *WSChannel) dial(ctx context.Context, attempts uint) error {
	var conn *websocket.Conn
	err := retry.Do(
		func() error {
			if c.isClosed() {
				return retry.Unrecoverable(errors.New("channel closed"))
			}
			var err error
			conn, _, err = c.dialer.DialContext(ctx, c.url, c.header)
			return err
		},
		retry.Attempts(attempts),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(c.retryMaxDelay),
		retry.MaxJitter(c.retryDelay),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			metrics.ChatReconnects.Inc()
			c.log.Warn("chat connect retry", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		return errors.New("channel closed")
	}
	c.conn = conn
	c.mu.Unlock()

	c.log.Info("chat channel connected", "url", c.url)
	for _, fn := range c.snapshotConnect() {
		fn()
	}

	go c.readLoop(conn)
	return nil
}

func (c *WSChannel) readLoop(conn *websocket.Conn) {
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			c.mu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			closed := c.closed
			c.mu.Unlock()

			if closed {
				return
			}

			c.log.Warn("chat channel disconnected", "error", err)
			for _, fn := range c.snapshotDisconnect() {
				fn(err)
			}

			// Reconnect with a fresh background context: the dial context
			// that opened this connection may be long gone. An established
			// channel redials without an attempt cap; only Close ends it.
			if err := c.dial(context.Background(), 0); err != nil && !c.isClosed() {
				c.log.Error("chat reconnect stopped", "error", err)
			}
			return
		}

		metrics.ChatEventsReceived.WithLabelValues(ev.Name).Inc()
		for _, h := range c.snapshotHandlers(ev.Name) {
			h(ev.Data)
		}
	}
}

// Emit sends one event. Returns ErrNotConnected while the channel is down.
func (c *WSChannel) Emit(event string, payload any) error {
	ev, err := NewEvent(event, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.WriteJSON(ev)
}

// On registers a handler for a server event.
func (c *WSChannel) On(event string, h Handler) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handlers[event] == nil {
		c.handlers[event] = make(map[int]Handler)
	}
	id := c.nextID
	c.nextID++
	c.handlers[event][id] = h

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers[event], id)
	}
}

// OnConnect registers a handler fired after every successful (re)connect.
func (c *WSChannel) OnConnect(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.connectFns[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.connectFns, id)
	}
}

// OnDisconnect registers a handler fired when the connection drops.
func (c *WSChannel) OnDisconnect(fn func(error)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.disconnectFn[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.disconnectFn, id)
	}
}

// Close tears the channel down for good; no reconnect follows.
func (c *WSChannel) Close() error {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (c *WSChannel) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *WSChannel) snapshotHandlers(event string) []Handler {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Handler, 0, len(c.handlers[event]))
	for _, h := range c.handlers[event] {
		out = append(out, h)
	}
	return out
}

func (c *WSChannel) snapshotConnect() []func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]func(), 0, len(c.connectFns))
	for _, fn := range c.connectFns {
		out = append(out, fn)
	}
	return out
}

func (c *WSChannel) snapshotDisconnect() []func(error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]func(error), 0, len(c.disconnectFn))
	for _, fn := range c.disconnectFn {
		out = append(out, fn)
	}
	return out
}
