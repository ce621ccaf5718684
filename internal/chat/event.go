// Package chat implements the realtime messaging client: a websocket event
// channel and a session that keeps conversation state in sync with both
// channel pushes and on-demand re-fetches.
package chat

import (
	"encoding/json"
	"fmt"

	"github.com/rfmelo/barbearia-client/internal/api"
)

// Client-to-server events.
const (
	EventJoinConversation = "join_conversation"
	EventSendMessage      = "send_message"
	EventTyping           = "typing"
)

// Server-to-client events.
const (
	EventNewMessage          = "new_message"
	EventUserTyping          = "user_typing"
	EventMessagesRead        = "messages_read"
	EventConversationUpdated = "conversation_updated"
)

// Event is the wire envelope for everything crossing the channel.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent wraps a payload in the envelope.
func NewEvent(name string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", name, err)
	}
	return &Event{Name: name, Data: data}, nil
}

// JoinPayload asks the server to scope this connection into a conversation's
// room.
type JoinPayload struct {
	ConversationID int64 `json:"conversation_id"`
}

// SendMessagePayload carries an outgoing message. The client never renders it
// locally; it waits for the echoed new_message event.
type SendMessagePayload struct {
	ConversationID int64  `json:"conversation_id"`
	Message        string `json:"message"`
}

// TypingPayload signals typing start/stop for a conversation.
type TypingPayload struct {
	ConversationID int64 `json:"conversation_id"`
	IsTyping       bool  `json:"is_typing"`
}

// MessagesReadPayload reports that the other participant read the thread.
type MessagesReadPayload struct {
	ConversationID int64 `json:"conversation_id"`
	ReaderID       int64 `json:"reader_id"`
}

// ParseMessage decodes a new_message event body.
func (e *Event) ParseMessage() (*api.Message, error) {
	var msg api.Message
	if err := json.Unmarshal(e.Data, &msg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", e.Name, err)
	}
	return &msg, nil
}

// ParseTyping decodes a user_typing event body.
func (e *Event) ParseTyping() (*TypingPayload, error) {
	var p TypingPayload
	if err := json.Unmarshal(e.Data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", e.Name, err)
	}
	return &p, nil
}

// ParseMessagesRead decodes a messages_read event body.
func (e *Event) ParseMessagesRead() (*MessagesReadPayload, error) {
	var p MessagesReadPayload
	if err := json.Unmarshal(e.Data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", e.Name, err)
	}
	return &p, nil
}
