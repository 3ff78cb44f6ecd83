package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yaqoubhassan/express-chat-api/middlewares"
	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/services"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

type MessageController struct {
	DB       *gorm.DB
	Messages *services.MessageService
	Manager  *services.Manager
}

type sendMessageInput struct {
	ReceiverID    string `json:"receiverId" binding:"required"`
	Type          string `json:"type"`
	Content       string `json:"content"`
	Media         string `json:"media"`
	AudioDuration string `json:"audioDuration"`
}

// SendMessage persists a message and pushes it to the receiver's channel. The
// sender updates its own view from this response, not from a socket echo.
func (ctl *MessageController) SendMessage(c *gin.Context) {
	me := middlewares.CurrentUser(c)

	var input sendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.Validation(err.Error()))
		return
	}
	if input.ReceiverID == me.ID {
		utils.RespondError(c, utils.Validation("Cannot send a message to yourself"))
		return
	}

	var receiver models.User
	if err := ctl.DB.Where("id = ?", input.ReceiverID).First(&receiver).Error; err != nil {
		utils.RespondError(c, utils.NotFound("Receiver not found"))
		return
	}

	msg := buildInputMessage(me.ID, input)
	res, err := ctl.Messages.Send(me.ID, input.ReceiverID, msg)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	ctl.Manager.Emit(input.ReceiverID, services.EventMessage,
		services.NewMessageEvent(res, me, input.ReceiverID, baseURL(c)))

	utils.RespondSuccess(c, http.StatusCreated, res)
}

type updateMessageInput struct {
	Content string `json:"content" binding:"required"`
}

// UpdateMessage edits the caller's own message and notifies the peer.
func (ctl *MessageController) UpdateMessage(c *gin.Context) {
	me := middlewares.CurrentUser(c)
	messageID := c.Param("messageId")

	var input updateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, utils.Validation("Content is required"))
		return
	}

	msg, err := ctl.Messages.Edit(messageID, me.ID, input.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	var conv models.Conversation
	if err := ctl.DB.Where("id = ?", msg.ConversationID).First(&conv).Error; err == nil {
		ctl.Manager.Emit(conv.PeerOf(me.ID), services.EventMessageUpdated, services.MessageUpdatedEvent{
			MessageID: msg.ID,
			Content:   msg.Content,
			UserID:    me.ID,
		})
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": msg})
}

// MarkMessageRead records a read receipt and notifies the original sender.
func (ctl *MessageController) MarkMessageRead(c *gin.Context) {
	me := middlewares.CurrentUser(c)
	messageID := c.Param("messageId")

	msg, err := ctl.Messages.MarkRead(messageID, me.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	ctl.Manager.Emit(msg.SenderID, services.EventMessageRead, services.MessageReadEvent{
		MessageID: msg.ID,
		ReaderID:  me.ID,
	})

	utils.RespondMessage(c, http.StatusOK, "Message marked as read")
}

func buildInputMessage(senderID string, input sendMessageInput) *models.Message {
	switch input.Type {
	case models.MessageTypeImage, models.MessageTypeVideo:
		return models.NewMediaMessage("", senderID, input.Type, input.Media)
	case models.MessageTypeAudio:
		return models.NewAudioMessage("", senderID, input.Media, input.AudioDuration)
	default:
		return models.NewTextMessage("", senderID, input.Content)
	}
}
