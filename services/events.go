package services

import (
	"encoding/json"
	"time"

	"github.com/yaqoubhassan/express-chat-api/models"
)

// Server→client events. Every event targets a single user's channel except
// userStatusChange, which goes to everyone.
const (
	EventMessage          = "message"
	EventMessageUpdated   = "messageUpdated"
	EventMessageRead      = "messageRead"
	EventTyping           = "typing"
	EventStopTyping       = "stopTyping"
	EventUserStatusChange = "userStatusChange"
)

// Client→server events.
const (
	EventSendMessage = "sendMessage"
	EventJoinRoom    = "joinRoom"
)

// Envelope is the wire format in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// MessageEvent is the payload pushed to the receiver on a successful send.
type MessageEvent struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Sender         string    `json:"sender"`
	SenderName     string    `json:"senderName"`
	SenderEmail    string    `json:"senderEmail"`
	SenderAvatar   string    `json:"senderAvatar"`
	Receiver       string    `json:"receiver"`
	Type           string    `json:"type"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	UnreadCount    int64     `json:"unreadCount"`
}

// NewMessageEvent assembles the receiver-side payload for a send.
func NewMessageEvent(res *SendResult, sender *models.User, receiverID, baseURL string) MessageEvent {
	return MessageEvent{
		ID:             res.Message.ID,
		ConversationID: res.Conversation.ID,
		Sender:         sender.ID,
		SenderName:     sender.Name,
		SenderEmail:    sender.Email,
		SenderAvatar:   sender.AvatarURL(baseURL),
		Receiver:       receiverID,
		Type:           res.Message.Type,
		Content:        res.Message.Content,
		CreatedAt:      res.Message.CreatedAt,
		UnreadCount:    res.UnreadCount,
	}
}

// MessageUpdatedEvent notifies the peer that a message's content changed.
type MessageUpdatedEvent struct {
	MessageID string `json:"messageId"`
	Content   string `json:"content"`
	UserID    string `json:"userId"` // who edited
}

// MessageReadEvent notifies the original sender of a read receipt.
type MessageReadEvent struct {
	MessageID string `json:"messageId"`
	ReaderID  string `json:"readerId"`
}

// TypingEvent relays a typing indicator to the peer.
type TypingEvent struct {
	SenderID string `json:"senderId"`
}
