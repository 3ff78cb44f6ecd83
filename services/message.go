package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

// MaxEditAge is how long after creation a sender may still edit a message.
const MaxEditAge = 24 * time.Hour

var (
	ErrMessageNotFound   = utils.NotFound("Message not found")
	ErrNotMessageSender  = utils.Forbidden("You can only edit your own messages")
	ErrEditWindowExpired = utils.Expired("Message is too old to edit")
	ErrReadOwnMessage    = utils.Forbidden("Cannot mark own message as read")
)

// MessageService validates, persists and sequences messages, and keeps the
// conversation summary and unread bookkeeping in step.
type MessageService struct {
	db            *gorm.DB
	conversations *ConversationService
}

func NewMessageService(db *gorm.DB, conversations *ConversationService) *MessageService {
	return &MessageService{db: db, conversations: conversations}
}

// SendResult is everything a send produces: the stored message, the thread it
// landed in, and the sender's current unread count for that thread.
type SendResult struct {
	Message      *models.Message      `json:"message"`
	Conversation *models.Conversation `json:"conversation"`
	UnreadCount  int64                `json:"unreadCount"`
}

// Send persists a message from sender to receiver, creating the conversation
// on first contact and refreshing its summary.
func (s *MessageService) Send(senderID, receiverID string, msg *models.Message) (*SendResult, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	conv, err := s.conversations.FindOrCreate(senderID, receiverID)
	if err != nil {
		return nil, err
	}

	msg.ConversationID = conv.ID
	msg.SenderID = senderID
	msg.Read = false
	if err := s.db.Create(msg).Error; err != nil {
		return nil, utils.Internal(err)
	}

	if err := s.conversations.ApplySummary(conv, msg); err != nil {
		return nil, err
	}

	unread, err := s.UnreadCount(conv.ID, senderID)
	if err != nil {
		return nil, err
	}

	return &SendResult{Message: msg, Conversation: conv, UnreadCount: unread}, nil
}

// SendText is the common path: a plain text message.
func (s *MessageService) SendText(senderID, receiverID, content string) (*SendResult, error) {
	return s.Send(senderID, receiverID, models.NewTextMessage("", senderID, content))
}

// Get loads a message by ID.
func (s *MessageService) Get(messageID string) (*models.Message, error) {
	var msg models.Message
	if err := s.db.Where("id = ?", messageID).First(&msg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, utils.Internal(err)
	}
	return &msg, nil
}

// Edit replaces the content of the editor's own message, within the edit
// window, and refreshes the conversation summary when the edited message is
// still the newest in the thread.
func (s *MessageService) Edit(messageID, editorID, content string) (*models.Message, error) {
	if content == "" {
		return nil, models.ErrEmptyContent
	}

	msg, err := s.Get(messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID != editorID {
		return nil, ErrNotMessageSender
	}
	if time.Since(msg.CreatedAt) > MaxEditAge {
		return nil, ErrEditWindowExpired
	}

	msg.Content = content
	msg.IsEdited = true
	if err := s.db.Model(msg).Updates(map[string]interface{}{
		"content":   msg.Content,
		"is_edited": true,
	}).Error; err != nil {
		return nil, utils.Internal(err)
	}

	conv, err := s.conversations.Get(msg.ConversationID)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.RefreshSummaryIfLast(conv, msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// MarkRead flags a message as read by the recipient. Only a non-sender may
// read a message; repeating the call is a no-op.
func (s *MessageService) MarkRead(messageID, readerID string) (*models.Message, error) {
	msg, err := s.Get(messageID)
	if err != nil {
		return nil, err
	}
	if msg.SenderID == readerID {
		return nil, ErrReadOwnMessage
	}
	if msg.Read {
		return msg, nil
	}

	now := time.Now()
	msg.Read = true
	msg.ReadAt = &now
	if err := s.db.Model(msg).Updates(map[string]interface{}{
		"read":    true,
		"read_at": msg.ReadAt,
	}).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return msg, nil
}

// UnreadCount counts the sender's own messages in the conversation that the
// peer has not read yet. Counter-intuitive but load-bearing: clients show it
// as "delivered, not yet seen" next to their outgoing messages.
func (s *MessageService) UnreadCount(conversationID, senderID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id = ? AND `read` = ?", conversationID, senderID, false).
		Count(&count).Error
	if err != nil {
		return 0, utils.Internal(err)
	}
	return count, nil
}

// MessagePage is one page of a conversation's history, oldest first.
type MessagePage struct {
	Messages []models.Message `json:"messages"`
	HasMore  bool             `json:"hasMore"`
}

// List returns a page of the conversation's messages in ascending creation
// order. Sorting happens here, not at the sender: concurrent sends may persist
// in either order, so arrival order is never authoritative.
func (s *MessageService) List(conversationID string, page, limit int) (*MessagePage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&models.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&total).Error; err != nil {
		return nil, utils.Internal(err)
	}

	var messages []models.Message
	err := s.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, utils.Internal(err)
	}

	return &MessagePage{
		Messages: messages,
		HasMore:  int64(page*limit) < total,
	}, nil
}
