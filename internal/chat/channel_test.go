package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsTestServer upgrades connections and exposes the server side of each.
type wsTestServer struct {
	*httptest.Server
	upgrader websocket.Upgrader

	mu      sync.Mutex
	conns   []*websocket.Conn
	cookies []string
}

func newWSTestServer(t *testing.T) *wsTestServer {
	t.Helper()
	s := &wsTestServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, conn)
		s.cookies = append(s.cookies, r.Header.Get("Cookie"))
		s.mu.Unlock()
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *wsTestServer) wsURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}

func (s *wsTestServer) waitConn(t *testing.T, n int) *websocket.Conn {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		s.mu.Lock()
		if len(s.conns) >= n {
			conn := s.conns[n-1]
			s.mu.Unlock()
			return conn
		}
		s.mu.Unlock()
		select {
		case <-deadline:
			t.Fatalf("connection %d never arrived", n)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestWSChannelEmitAndReceive(t *testing.T) {
	srv := newWSTestServer(t)

	c := NewWSChannel(srv.wsURL())
	defer func() { _ = c.Close() }()

	received := make(chan json.RawMessage, 1)
	c.On(EventNewMessage, func(data json.RawMessage) { received <- data })

	if err := c.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	serverConn := srv.waitConn(t, 1)

	if err := c.Emit(EventSendMessage, SendMessagePayload{ConversationID: 5, Message: "oi"}); err != nil {
		t.Fatal(err)
	}
	var ev Event
	if err := serverConn.ReadJSON(&ev); err != nil {
		t.Fatal(err)
	}
	if ev.Name != EventSendMessage {
		t.Errorf("server received %q, want %q", ev.Name, EventSendMessage)
	}

	push, err := NewEvent(EventNewMessage, map[string]any{"id": 1, "conversation_id": 5, "message": "olá"})
	if err != nil {
		t.Fatal(err)
	}
	if err := serverConn.WriteJSON(push); err != nil {
		t.Fatal(err)
	}

	select {
	case data := <-received:
		var got struct {
			ConversationID int64 `json:"conversation_id"`
		}
		if err := json.Unmarshal(data, &got); err != nil || got.ConversationID != 5 {
			t.Errorf("handler payload = %s (err %v)", data, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never fired")
	}
}

func TestWSChannelEmitWhileDisconnected(t *testing.T) {
	c := NewWSChannel("ws://127.0.0.1:1/ws")
	defer func() { _ = c.Close() }()

	err := c.Emit(EventTyping, TypingPayload{ConversationID: 1, IsTyping: true})
	if err != ErrNotConnected {
		t.Errorf("Emit on a disconnected channel = %v, want ErrNotConnected", err)
	}
}

func TestWSChannelReconnectAfterDrop(t *testing.T) {
	srv := newWSTestServer(t)

	c := NewWSChannel(srv.wsURL())
	defer func() { _ = c.Close() }()

	connects := make(chan struct{}, 4)
	disconnects := make(chan struct{}, 4)
	c.OnConnect(func() { connects <- struct{}{} })
	c.OnDisconnect(func(error) { disconnects <- struct{}{} })

	if err := c.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	<-connects
	serverConn := srv.waitConn(t, 1)

	// Dropping the server side must trigger disconnect handlers and a redial.
	_ = serverConn.Close()

	select {
	case <-disconnects:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect handler never fired")
	}
	select {
	case <-connects:
	case <-time.After(5 * time.Second):
		t.Fatal("channel never reconnected")
	}
	srv.waitConn(t, 2)
}

func TestWSChannelReconnectOutlastsInitialDialCap(t *testing.T) {
	var (
		mu       sync.Mutex
		upgrader websocket.Upgrader
		requests int
		conns    []*websocket.Conn
	)
	// First dial succeeds; then the server stays down well past the initial
	// dial cap before accepting again.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests++
		n := requests
		mu.Unlock()
		if n > 1 && n <= connectAttempts+3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		mu.Lock()
		conns = append(conns, conn)
		mu.Unlock()
	}))
	defer srv.Close()

	c := NewWSChannel("ws"+strings.TrimPrefix(srv.URL, "http"),
		WithDialBackoff(time.Millisecond, 5*time.Millisecond),
	)
	defer func() { _ = c.Close() }()

	connects := make(chan struct{}, 4)
	c.OnConnect(func() { connects <- struct{}{} })

	if err := c.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	<-connects

	mu.Lock()
	first := conns[0]
	mu.Unlock()
	_ = first.Close()

	select {
	case <-connects:
	case <-time.After(5 * time.Second):
		t.Fatal("channel gave up redialing before the server came back")
	}
}

func TestWSChannelCloseStopsReconnect(t *testing.T) {
	srv := newWSTestServer(t)

	c := NewWSChannel(srv.wsURL())
	if err := c.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	srv.waitConn(t, 1)

	if err := c.Close(); err != nil {
		t.Fatal(err)
	}

	time.Sleep(200 * time.Millisecond)
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if len(srv.conns) != 1 {
		t.Errorf("got %d connections after Close, want the original only", len(srv.conns))
	}
}

func TestWSChannelSessionCookie(t *testing.T) {
	srv := newWSTestServer(t)

	c := NewWSChannel(srv.wsURL(), WithSessionToken("tok123"))
	defer func() { _ = c.Close() }()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	srv.waitConn(t, 1)

	srv.mu.Lock()
	defer srv.mu.Unlock()
	if !strings.Contains(srv.cookies[0], "session=tok123") {
		t.Errorf("upgrade cookie = %q, want session token", srv.cookies[0])
	}
}

func TestWSChannelUnsubscribe(t *testing.T) {
	srv := newWSTestServer(t)

	c := NewWSChannel(srv.wsURL())
	defer func() { _ = c.Close() }()

	fired := make(chan struct{}, 2)
	off := c.On(EventNewMessage, func(json.RawMessage) { fired <- struct{}{} })
	off()

	if err := c.Connect(context.Background()); err != nil {
		t.Fatal(err)
	}
	serverConn := srv.waitConn(t, 1)

	push, _ := NewEvent(EventNewMessage, map[string]any{"id": 1})
	if err := serverConn.WriteJSON(push); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Error("handler fired after unsubscribe")
	case <-time.After(300 * time.Millisecond):
	}
}
