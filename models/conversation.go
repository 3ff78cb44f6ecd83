package models

import "time"

// Conversation 私聊会话：每一对用户至多一条记录。
// Participants are stored in canonical order (ParticipantA < ParticipantB) and
// covered by a composite unique index, so two concurrent first-messages between
// the same pair cannot create duplicate threads.
type Conversation struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ParticipantA  string    `gorm:"type:varchar(36);uniqueIndex:idx_participants;not null" json:"participantA"`
	ParticipantB  string    `gorm:"type:varchar(36);uniqueIndex:idx_participants;not null" json:"participantB"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `gorm:"index" json:"lastMessageAt"`
	LastMessageID *string   `gorm:"type:varchar(36)" json:"lastMessageId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// 关联用户A和用户B
	ParticipantAUser User `gorm:"foreignKey:ParticipantA;references:ID" json:"participantAUser,omitempty"`
	ParticipantBUser User `gorm:"foreignKey:ParticipantB;references:ID" json:"participantBUser,omitempty"`
}

// CanonicalPair orders two participant IDs so that lookups and inserts always
// use the same (A, B) key regardless of who sent first.
func CanonicalPair(userA, userB string) (string, string) {
	if userB < userA {
		return userB, userA
	}
	return userA, userB
}

// HasParticipant reports whether the given user belongs to the conversation.
func (c *Conversation) HasParticipant(userID string) bool {
	return c.ParticipantA == userID || c.ParticipantB == userID
}

// PeerOf returns the other participant's ID.
func (c *Conversation) PeerOf(userID string) string {
	if c.ParticipantA == userID {
		return c.ParticipantB
	}
	return c.ParticipantA
}
