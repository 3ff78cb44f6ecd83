package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

type messageFixture struct {
	db       *gorm.DB
	messages *MessageService
	alice    *models.User
	bob      *models.User
}

func newMessageFixture(t *testing.T) *messageFixture {
	t.Helper()
	db := newTestDB(t)
	conversations := NewConversationService(db)
	return &messageFixture{
		db:       db,
		messages: NewMessageService(db, conversations),
		alice:    createTestUser(t, db, "alice"),
		bob:      createTestUser(t, db, "bob"),
	}
}

// backdate shifts a message's creation time, e.g. beyond the edit window.
func (fx *messageFixture) backdate(t *testing.T, msg *models.Message, age time.Duration) {
	t.Helper()
	require.NoError(t, fx.db.Model(msg).Update("created_at", time.Now().Add(-age)).Error)
	msg.CreatedAt = time.Now().Add(-age)
}

func TestSend(t *testing.T) {
	t.Run("first send creates the conversation", func(t *testing.T) {
		fx := newMessageFixture(t)

		res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "hi")
		require.NoError(t, err)

		assert.False(t, res.Message.Read)
		assert.Equal(t, "hi", res.Message.Content)
		assert.Equal(t, fx.alice.ID, res.Message.SenderID)
		assert.Equal(t, "hi", res.Conversation.LastMessage)
		assert.EqualValues(t, 1, res.UnreadCount, "unread count includes the just-sent message")
	})

	t.Run("subsequent sends reuse the conversation", func(t *testing.T) {
		fx := newMessageFixture(t)

		first, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "one")
		require.NoError(t, err)
		second, err := fx.messages.SendText(fx.bob.ID, fx.alice.ID, "two")
		require.NoError(t, err)
		assert.Equal(t, first.Conversation.ID, second.Conversation.ID)

		var count int64
		fx.db.Model(&models.Conversation{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("empty text content is rejected", func(t *testing.T) {
		fx := newMessageFixture(t)

		_, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "")
		require.Error(t, err)
		assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)
	})

	t.Run("media messages require a media URL", func(t *testing.T) {
		fx := newMessageFixture(t)

		_, err := fx.messages.Send(fx.alice.ID, fx.bob.ID,
			models.NewMediaMessage("", fx.alice.ID, models.MessageTypeImage, ""))
		require.Error(t, err)
		assert.Equal(t, utils.CodeValidation, utils.AsAppError(err).Code)

		res, err := fx.messages.Send(fx.alice.ID, fx.bob.ID,
			models.NewMediaMessage("", fx.alice.ID, models.MessageTypeImage, "uploads/cat.png"))
		require.NoError(t, err)
		assert.Equal(t, "[image]", res.Conversation.LastMessage)
	})
}

func TestUnreadCount(t *testing.T) {
	fx := newMessageFixture(t)

	// Alice sends three, Bob reads the first one.
	first, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "one")
	require.NoError(t, err)
	_, err = fx.messages.SendText(fx.alice.ID, fx.bob.ID, "two")
	require.NoError(t, err)
	_, err = fx.messages.MarkRead(first.Message.ID, fx.bob.ID)
	require.NoError(t, err)

	res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "three")
	require.NoError(t, err)

	// Two of Alice's messages remain unread by Bob: "two" and the new "three".
	assert.EqualValues(t, 2, res.UnreadCount)

	// Bob's own unread tally in the same thread is independent.
	bobRes, err := fx.messages.SendText(fx.bob.ID, fx.alice.ID, "reply")
	require.NoError(t, err)
	assert.EqualValues(t, 1, bobRes.UnreadCount)
}

func TestEdit(t *testing.T) {
	t.Run("sender edits within the window", func(t *testing.T) {
		fx := newMessageFixture(t)
		res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "helo")
		require.NoError(t, err)

		edited, err := fx.messages.Edit(res.Message.ID, fx.alice.ID, "hello")
		require.NoError(t, err)
		assert.Equal(t, "hello", edited.Content)
		assert.True(t, edited.IsEdited)

		var stored models.Message
		require.NoError(t, fx.db.First(&stored, "id = ?", res.Message.ID).Error)
		assert.Equal(t, "hello", stored.Content)
		assert.True(t, stored.IsEdited)
	})

	t.Run("editing the last message refreshes the summary", func(t *testing.T) {
		fx := newMessageFixture(t)
		res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "helo")
		require.NoError(t, err)

		_, err = fx.messages.Edit(res.Message.ID, fx.alice.ID, "hello")
		require.NoError(t, err)

		var conv models.Conversation
		require.NoError(t, fx.db.First(&conv, "id = ?", res.Conversation.ID).Error)
		assert.Equal(t, "hello", conv.LastMessage)
	})

	t.Run("editing an older message leaves the summary alone", func(t *testing.T) {
		fx := newMessageFixture(t)
		older, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "first")
		require.NoError(t, err)
		_, err = fx.messages.SendText(fx.alice.ID, fx.bob.ID, "second")
		require.NoError(t, err)

		_, err = fx.messages.Edit(older.Message.ID, fx.alice.ID, "first, edited")
		require.NoError(t, err)

		var conv models.Conversation
		require.NoError(t, fx.db.First(&conv, "id = ?", older.Conversation.ID).Error)
		assert.Equal(t, "second", conv.LastMessage)
	})

	t.Run("non-sender is forbidden", func(t *testing.T) {
		fx := newMessageFixture(t)
		res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "mine")
		require.NoError(t, err)

		_, err = fx.messages.Edit(res.Message.ID, fx.bob.ID, "hijacked")
		require.ErrorIs(t, err, ErrNotMessageSender)

		var stored models.Message
		require.NoError(t, fx.db.First(&stored, "id = ?", res.Message.ID).Error)
		assert.Equal(t, "mine", stored.Content)
	})

	t.Run("expired window", func(t *testing.T) {
		fx := newMessageFixture(t)
		res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "old news")
		require.NoError(t, err)
		fx.backdate(t, res.Message, 25*time.Hour)

		_, err = fx.messages.Edit(res.Message.ID, fx.alice.ID, "rewrite history")
		require.ErrorIs(t, err, ErrEditWindowExpired)

		var stored models.Message
		require.NoError(t, fx.db.First(&stored, "id = ?", res.Message.ID).Error)
		assert.Equal(t, "old news", stored.Content)
		assert.False(t, stored.IsEdited)
	})

	t.Run("missing message", func(t *testing.T) {
		fx := newMessageFixture(t)
		_, err := fx.messages.Edit("no-such-id", fx.alice.ID, "hello")
		require.ErrorIs(t, err, ErrMessageNotFound)
	})
}

func TestMarkRead(t *testing.T) {
	t.Run("recipient marks read and readAt is set", func(t *testing.T) {
		fx := newMessageFixture(t)
		res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "hi")
		require.NoError(t, err)

		msg, err := fx.messages.MarkRead(res.Message.ID, fx.bob.ID)
		require.NoError(t, err)
		assert.True(t, msg.Read)
		require.NotNil(t, msg.ReadAt)

		var stored models.Message
		require.NoError(t, fx.db.First(&stored, "id = ?", res.Message.ID).Error)
		assert.True(t, stored.Read)
		require.NotNil(t, stored.ReadAt)
	})

	t.Run("marking read twice is a no-op", func(t *testing.T) {
		fx := newMessageFixture(t)
		res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "hi")
		require.NoError(t, err)

		first, err := fx.messages.MarkRead(res.Message.ID, fx.bob.ID)
		require.NoError(t, err)
		second, err := fx.messages.MarkRead(res.Message.ID, fx.bob.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ReadAt.Unix(), second.ReadAt.Unix())
	})

	t.Run("sender cannot read their own message", func(t *testing.T) {
		fx := newMessageFixture(t)
		res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "hi")
		require.NoError(t, err)

		_, err = fx.messages.MarkRead(res.Message.ID, fx.alice.ID)
		require.ErrorIs(t, err, ErrReadOwnMessage)
	})

	t.Run("missing message", func(t *testing.T) {
		fx := newMessageFixture(t)
		_, err := fx.messages.MarkRead("no-such-id", fx.bob.ID)
		require.ErrorIs(t, err, ErrMessageNotFound)
	})
}

func TestList(t *testing.T) {
	fx := newMessageFixture(t)

	var convID string
	for i := 0; i < 25; i++ {
		res, err := fx.messages.SendText(fx.alice.ID, fx.bob.ID, "msg")
		require.NoError(t, err)
		convID = res.Conversation.ID
		// Spread creation times so ordering is unambiguous.
		fx.backdate(t, res.Message, time.Duration(25-i)*time.Minute)
	}

	var previous time.Time
	total := 0
	for page := 1; ; page++ {
		msgPage, err := fx.messages.List(convID, page, 10)
		require.NoError(t, err)

		for _, m := range msgPage.Messages {
			require.False(t, m.CreatedAt.Before(previous),
				"messages must be non-decreasing in creation time across pages")
			previous = m.CreatedAt
			total++
		}

		if !msgPage.HasMore {
			assert.NotEmpty(t, msgPage.Messages)
			break
		}
		assert.Len(t, msgPage.Messages, 10)
	}
	assert.Equal(t, 25, total)
}
