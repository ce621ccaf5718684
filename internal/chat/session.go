package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rfmelo/barbearia-client/internal/api"
	"github.com/rfmelo/barbearia-client/internal/auth"
	"github.com/rfmelo/barbearia-client/internal/metrics"
	"github.com/rfmelo/barbearia-client/pkg/observability"
)

const defaultTypingIdle = time.Second

// ChatAPI is the REST slice the session needs. *api.ChatService satisfies it.
type ChatAPI interface {
	Conversations(ctx context.Context) ([]api.Conversation, error)
	Messages(ctx context.Context, conversationID int64) ([]api.Message, error)
	ConversationWith(ctx context.Context, userID int64) (int64, error)
}

// UserDirectory lists candidate chat partners. *api.UsersService satisfies it.
type UserDirectory interface {
	ListByRole(ctx context.Context, role string) ([]api.User, error)
}

// View is the presentation surface the session renders into.
type View interface {
	ShowConversations(convs []api.Conversation)
	ShowHistory(groups []MessageGroup)
	AppendMessage(msg api.Message)
	SetTypingIndicator(active bool)
	SetConnected(connected bool)
}

// Session is one chat page instance: at most one open conversation, a typing
// debounce, and channel handlers that keep the view in sync. Construct with
// NewSession, release with Close.
type Session struct {
	api   ChatAPI
	users UserDirectory
	ch    Channel
	view  View
	log   *observability.Logger

	role       string
	typingIdle time.Duration
	now        func() time.Time

	mu            sync.Mutex
	conversations []api.Conversation
	currentID     int64
	otherUser     *api.User
	isTyping      bool
	typingTimer   *time.Timer
	unsubs        []func()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTypingIdle overrides the 1s typing debounce window.
func WithTypingIdle(d time.Duration) SessionOption {
	return func(s *Session) { s.typingIdle = d }
}

// WithSessionClock injects the time source used for message grouping.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithSessionLogger sets the session logger.
func WithSessionLogger(log *observability.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// NewSession wires a session to its channel. role is the current user's role
// ("cliente"/"barbeiro"); the new-conversation flow lists the opposite role.
func NewSession(chatAPI ChatAPI, users UserDirectory, ch Channel, view View, role string, opts ...SessionOption) *Session {
	s := &Session{
		api:        chatAPI,
		users:      users,
		ch:         ch,
		view:       view,
		log:        observability.NewLogger("chat"),
		role:       role,
		typingIdle: defaultTypingIdle,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.unsubs = append(s.unsubs,
		ch.OnConnect(s.handleConnect),
		ch.OnDisconnect(s.handleDisconnect),
		ch.On(EventNewMessage, s.handleNewMessage),
		ch.On(EventUserTyping, s.handleUserTyping),
		ch.On(EventMessagesRead, s.handleMessagesRead),
		ch.On(EventConversationUpdated, s.handleConversationUpdated),
	)

	return s
}

// Close unregisters every channel handler and stops the typing timer, so a
// session can be discarded without leaking into the channel.
func (s *Session) Close() {
	s.mu.Lock()
	if s.typingTimer != nil {
		s.typingTimer.Stop()
		s.typingTimer = nil
	}
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()

	for _, off := range unsubs {
		off()
	}
}

// Role returns the current user's role.
func (s *Session) Role() string { return s.role }

// CurrentConversation returns the open conversation id, zero when none.
func (s *Session) CurrentConversation() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Conversations returns the last loaded conversation list.
func (s *Session) Conversations() []api.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// LoadConversations re-fetches the conversation list (full replace) and
// renders it.
func (s *Session) LoadConversations(ctx context.Context) error {
	convs, err := s.api.Conversations(ctx)
	if err != nil {
		return fmt.Errorf("load conversations: %w", err)
	}

	s.mu.Lock()
	s.conversations = convs
	s.mu.Unlock()

	s.view.ShowConversations(convs)
	return nil
}

// Filter returns the conversations whose participant name contains the query
// (case-insensitive). Pure visibility: no re-fetch, stored list untouched.
func (s *Session) Filter(query string) []api.Conversation {
	s.mu.Lock()
	convs := s.conversations
	s.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		return convs
	}

	q := strings.ToLower(query)
	var visible []api.Conversation
	for _, c := range convs {
		if strings.Contains(strings.ToLower(c.OtherUserName), q) {
			visible = append(visible, c)
		}
	}
	return visible
}

// OpenConversation switches to a conversation: full history replace, then a
// join_conversation emit for the room. No leave is sent for the previous
// room; the server manages stale membership.
func (s *Session) OpenConversation(ctx context.Context, conversationID int64, other api.User) error {
	s.mu.Lock()
	s.currentID = conversationID
	s.otherUser = &other
	s.mu.Unlock()

	msgs, err := s.api.Messages(ctx, conversationID)
	if err != nil {
		return fmt.Errorf("load messages: %w", err)
	}

	s.view.ShowHistory(GroupMessages(msgs, s.now()))

	if err := s.ch.Emit(EventJoinConversation, JoinPayload{ConversationID: conversationID}); err != nil {
		s.log.Warn("join emit failed", "conversation", conversationID, "error", err)
	}
	return nil
}

// SendMessage emits the trimmed text for the open conversation. Empty or
// whitespace-only text, or no open conversation, is a silent no-op. The
// message is not rendered locally; the echoed new_message event does that.
func (s *Session) SendMessage(text string) error {
	trimmed := strings.TrimSpace(text)

	s.mu.Lock()
	conversationID := s.currentID
	wasTyping := s.isTyping
	if trimmed != "" && conversationID != 0 {
		s.isTyping = false
		if s.typingTimer != nil {
			s.typingTimer.Stop()
			s.typingTimer = nil
		}
	}
	s.mu.Unlock()

	if trimmed == "" || conversationID == 0 {
		return nil
	}

	err := s.ch.Emit(EventSendMessage, SendMessagePayload{
		ConversationID: conversationID,
		Message:        trimmed,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	metrics.ChatMessagesSent.Inc()

	// Sending ends the typing run immediately, ahead of the idle timer.
	if wasTyping {
		s.emitTyping(conversationID, false)
	}
	return nil
}

// HandleInput tracks the typing indicator: typing-start once per continuous
// run of non-empty input, typing-stop after the idle window expires.
func (s *Session) HandleInput(text string) {
	s.mu.Lock()
	conversationID := s.currentID
	if conversationID == 0 {
		s.mu.Unlock()
		return
	}

	startTyping := !s.isTyping && strings.TrimSpace(text) != ""
	if startTyping {
		s.isTyping = true
	}

	if s.typingTimer != nil {
		s.typingTimer.Stop()
	}
	s.typingTimer = time.AfterFunc(s.typingIdle, func() { s.typingIdleExpired(conversationID) })
	s.mu.Unlock()

	if startTyping {
		s.emitTyping(conversationID, true)
	}
}

func (s *Session) typingIdleExpired(conversationID int64) {
	s.mu.Lock()
	stillTyping := s.isTyping
	s.isTyping = false
	s.typingTimer = nil
	s.mu.Unlock()

	if stillTyping {
		s.emitTyping(conversationID, false)
	}
}

func (s *Session) emitTyping(conversationID int64, isTyping bool) {
	err := s.ch.Emit(EventTyping, TypingPayload{
		ConversationID: conversationID,
		IsTyping:       isTyping,
	})
	if err != nil {
		s.log.Debug("typing emit failed", "error", err)
	}
}

// CandidateUsers lists users of the opposite role for the new-conversation
// flow.
func (s *Session) CandidateUsers(ctx context.Context) ([]api.User, error) {
	return s.users.ListByRole(ctx, auth.OppositeRole(s.role))
}

// StartConversation gets-or-creates the conversation with a user, refreshes
// the list and opens it.
func (s *Session) StartConversation(ctx context.Context, other api.User) error {
	conversationID, err := s.api.ConversationWith(ctx, other.ID)
	if err != nil {
		return fmt.Errorf("start conversation: %w", err)
	}

	if err := s.LoadConversations(ctx); err != nil {
		s.log.Warn("conversation list refresh failed", "error", err)
	}
	return s.OpenConversation(ctx, conversationID, other)
}

func (s *Session) handleConnect() {
	s.view.SetConnected(true)

	// Room membership is connection-scoped, so a reconnect means the server
	// no longer has us in the open conversation's room. Re-join it.
	s.mu.Lock()
	conversationID := s.currentID
	s.mu.Unlock()

	if conversationID != 0 {
		if err := s.ch.Emit(EventJoinConversation, JoinPayload{ConversationID: conversationID}); err != nil {
			s.log.Warn("re-join emit failed", "conversation", conversationID, "error", err)
		}
	}
}

func (s *Session) handleDisconnect(err error) {
	s.view.SetConnected(false)
}

func (s *Session) handleNewMessage(data json.RawMessage) {
	ev := Event{Name: EventNewMessage, Data: data}
	msg, err := ev.ParseMessage()
	if err != nil {
		s.log.Warn("bad new_message event", "error", err)
		return
	}

	s.mu.Lock()
	current := s.currentID
	s.mu.Unlock()

	if msg.ConversationID == current && current != 0 {
		s.view.AppendMessage(*msg)
		return
	}

	// A message for another thread only means its summary changed.
	s.refreshConversations()
}

func (s *Session) handleUserTyping(data json.RawMessage) {
	ev := Event{Name: EventUserTyping, Data: data}
	p, err := ev.ParseTyping()
	if err != nil {
		s.log.Warn("bad user_typing event", "error", err)
		return
	}

	s.mu.Lock()
	current := s.currentID
	s.mu.Unlock()

	if p.ConversationID == current && current != 0 {
		s.view.SetTypingIndicator(p.IsTyping)
	}
}

func (s *Session) handleMessagesRead(data json.RawMessage) {
	ev := Event{Name: EventMessagesRead, Data: data}
	if p, err := ev.ParseMessagesRead(); err == nil {
		s.log.Debug("messages read", "conversation", p.ConversationID, "reader", p.ReaderID)
	}
}

func (s *Session) handleConversationUpdated(json.RawMessage) {
	s.refreshConversations()
}

func (s *Session) refreshConversations() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.LoadConversations(ctx); err != nil {
		s.log.Warn("conversation refresh failed", "error", err)
	}
}
