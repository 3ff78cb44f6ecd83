package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

// ConversationService resolves and maintains the single thread between a pair
// of users, including the denormalized last-message summary.
type ConversationService struct {
	db *gorm.DB
}

func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db}
}

// FindOrCreate returns the conversation between the two users, creating it
// with empty summary fields on first contact. The pair is canonicalized and
// the insert tolerates a concurrent create, so repeated and concurrent calls
// converge on the same row.
func (s *ConversationService) FindOrCreate(userA, userB string) (*models.Conversation, error) {
	a, b := models.CanonicalPair(userA, userB)

	conv := models.Conversation{
		ID:            uuid.New().String(),
		ParticipantA:  a,
		ParticipantB:  b,
		LastMessageAt: time.Now(),
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "participant_a"}, {Name: "participant_b"}},
		DoNothing: true,
	}).Create(&conv).Error
	if err != nil {
		return nil, utils.Internal(err)
	}

	// Re-read: either our row or the one a concurrent sender won with.
	var found models.Conversation
	if err := s.db.Where("participant_a = ? AND participant_b = ?", a, b).First(&found).Error; err != nil {
		return nil, utils.Internal(err)
	}
	return &found, nil
}

// Get loads a conversation by ID.
func (s *ConversationService) Get(conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := s.db.Where("id = ?", conversationID).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Conversation not found")
		}
		return nil, utils.Internal(err)
	}
	return &conv, nil
}

// FindBetween returns the existing conversation for the pair, or NotFound.
func (s *ConversationService) FindBetween(userA, userB string) (*models.Conversation, error) {
	a, b := models.CanonicalPair(userA, userB)
	var conv models.Conversation
	err := s.db.Where("participant_a = ? AND participant_b = ?", a, b).First(&conv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Conversation not found")
		}
		return nil, utils.Internal(err)
	}
	return &conv, nil
}

// ApplySummary overwrites the conversation's last-message fields with the
// just-sent message and persists them.
func (s *ConversationService) ApplySummary(conv *models.Conversation, msg *models.Message) error {
	conv.LastMessage = msg.Summary()
	conv.LastMessageAt = msg.CreatedAt
	conv.LastMessageID = &msg.ID
	if err := s.db.Model(conv).Updates(map[string]interface{}{
		"last_message":    conv.LastMessage,
		"last_message_at": conv.LastMessageAt,
		"last_message_id": conv.LastMessageID,
	}).Error; err != nil {
		return utils.Internal(err)
	}
	return nil
}

// RefreshSummaryIfLast updates the summary text after an edit, but only when
// the edited message is still the recorded last message. A stale edit to an
// older message must not clobber the summary.
func (s *ConversationService) RefreshSummaryIfLast(conv *models.Conversation, msg *models.Message) error {
	if conv.LastMessageID == nil || *conv.LastMessageID != msg.ID {
		return nil
	}
	conv.LastMessage = msg.Summary()
	if err := s.db.Model(conv).Update("last_message", conv.LastMessage).Error; err != nil {
		return utils.Internal(err)
	}
	return nil
}

// ListForUser returns the user's conversations ordered by recent activity,
// participants preloaded, paginated.
func (s *ConversationService) ListForUser(userID string, page, limit int) ([]models.Conversation, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var conversations []models.Conversation
	err := s.db.
		Preload("ParticipantAUser").
		Preload("ParticipantBUser").
		Where("participant_a = ? OR participant_b = ?", userID, userID).
		Order("last_message_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&conversations).Error
	if err != nil {
		return nil, utils.Internal(err)
	}
	return conversations, nil
}
