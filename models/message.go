package models

import (
	"time"

	"github.com/google/uuid"
)

// Message types. Required fields depend on the type: text carries Content,
// image/video carry Media, audio carries AudioDuration.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeVideo = "video"
	MessageTypeAudio = "audio"
)

type Message struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ConversationID string     `gorm:"type:varchar(36);index;not null" json:"conversationId"`
	SenderID       string     `gorm:"type:varchar(36);index;not null" json:"sender"`
	Type           string     `gorm:"type:varchar(10);default:'text'" json:"type"`
	Content        string     `json:"content"`
	Media          string     `json:"media,omitempty"`         // URL for image or video
	AudioDuration  string     `json:"audioDuration,omitempty"` // duration of the audio file
	Read           bool       `gorm:"default:false;index" json:"read"`
	ReadAt         *time.Time `json:"readAt,omitempty"`
	IsEdited       bool       `gorm:"default:false" json:"isEdited"`
	CreatedAt      time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	Sender User `gorm:"foreignKey:SenderID;references:ID" json:"-"`
}

// NewTextMessage builds an unread text message for the conversation.
func NewTextMessage(conversationID, senderID, content string) *Message {
	return &Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Type:           MessageTypeText,
		Content:        content,
	}
}

// NewMediaMessage builds an image or video message pointing at a media URL.
func NewMediaMessage(conversationID, senderID, msgType, mediaURL string) *Message {
	return &Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Type:           msgType,
		Media:          mediaURL,
	}
}

// NewAudioMessage builds an audio message carrying its duration.
func NewAudioMessage(conversationID, senderID, mediaURL, duration string) *Message {
	return &Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Type:           MessageTypeAudio,
		Media:          mediaURL,
		AudioDuration:  duration,
	}
}

// Validate enforces the type-conditional required fields before persisting.
func (m *Message) Validate() error {
	switch m.Type {
	case MessageTypeText:
		if m.Content == "" {
			return ErrEmptyContent
		}
	case MessageTypeImage, MessageTypeVideo:
		if m.Media == "" {
			return ErrMissingMedia
		}
	case MessageTypeAudio:
		if m.AudioDuration == "" {
			return ErrMissingDuration
		}
	default:
		return ErrUnknownMessageType
	}
	return nil
}

// Summary is the text shown in the conversation list for this message.
func (m *Message) Summary() string {
	switch m.Type {
	case MessageTypeImage:
		return "[image]"
	case MessageTypeVideo:
		return "[video]"
	case MessageTypeAudio:
		return "[audio]"
	default:
		return m.Content
	}
}
