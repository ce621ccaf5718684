package api

import (
	"context"
	"fmt"
	"net/http"
)

// ChatService talks to /api/chat.
type ChatService struct {
	client *Client
}

// Conversation is one thread between a client and a barber, as summarized in
// the conversation list. Ordering is server-supplied (most recent first).
type Conversation struct {
	ID            int64  `json:"id"`
	OtherUserID   int64  `json:"other_user_id"`
	OtherUserName string `json:"other_user_nome"`
	LastMessage   string `json:"last_message"`
	LastMessageAt Time   `json:"last_message_at"`
	UnreadCount   int    `json:"unread_count"`
}

// Message is a single chat message. The same shape arrives over the realtime
// channel as a new_message event.
type Message struct {
	ID             int64  `json:"id"`
	ConversationID int64  `json:"conversation_id"`
	SenderID       int64  `json:"sender_id"`
	SenderType     string `json:"sender_tipo"`
	SenderName     string `json:"sender_nome"`
	Body           string `json:"message"`
	CreatedAt      Time   `json:"created_at"`
}

// Conversations returns the full conversation list for the current user.
func (s *ChatService) Conversations(ctx context.Context) ([]Conversation, error) {
	var res struct {
		Success       bool           `json:"success"`
		Message       string         `json:"message"`
		Conversations []Conversation `json:"conversations"`
	}
	if err := s.client.do(ctx, http.MethodGet, "/api/chat/conversations", nil, &res); err != nil {
		return nil, err
	}
	if err := checkEnvelope(res.Success, res.Message); err != nil {
		return nil, err
	}
	return res.Conversations, nil
}

// Messages returns the full history for one conversation, oldest first.
func (s *ChatService) Messages(ctx context.Context, conversationID int64) ([]Message, error) {
	var res struct {
		Success  bool      `json:"success"`
		Message  string    `json:"message"`
		Messages []Message `json:"messages"`
	}
	path := fmt.Sprintf("/api/chat/messages/%d", conversationID)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	if err := checkEnvelope(res.Success, res.Message); err != nil {
		return nil, err
	}
	return res.Messages, nil
}

// ConversationWith returns the conversation id for the pair (current user,
// other user), creating it server-side if needed. The server guarantees
// idempotency for repeated calls with the same user.
func (s *ChatService) ConversationWith(ctx context.Context, userID int64) (int64, error) {
	var res struct {
		Success        bool   `json:"success"`
		Message        string `json:"message"`
		ConversationID int64  `json:"conversation_id"`
	}
	path := fmt.Sprintf("/api/chat/conversation/%d", userID)
	if err := s.client.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return 0, err
	}
	if err := checkEnvelope(res.Success, res.Message); err != nil {
		return 0, err
	}
	return res.ConversationID, nil
}
