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

type ConversationController struct {
	DB            *gorm.DB
	Conversations *services.ConversationService
	Messages      *services.MessageService
	Presence      *services.Presence
}

// GetConversations lists the caller's threads, most recently active first.
func (ctl *ConversationController) GetConversations(c *gin.Context) {
	me := middlewares.CurrentUser(c)
	page, limit := pagination(c)

	conversations, err := ctl.Conversations.ListForUser(me.ID, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	base := baseURL(c)
	out := make([]gin.H, 0, len(conversations))
	for _, conv := range conversations {
		peer := conv.ParticipantAUser
		if peer.ID == me.ID {
			peer = conv.ParticipantBUser
		}
		out = append(out, gin.H{
			"id":            conv.ID,
			"lastMessage":   conv.LastMessage,
			"lastMessageAt": conv.LastMessageAt,
			"participant": gin.H{
				"id":           peer.ID,
				"name":         peer.Name,
				"email":        peer.Email,
				"avatar":       peer.AvatarURL(base),
				"online":       ctl.Presence.IsOnline(peer.ID),
				"activeStatus": peer.ActiveStatus,
			},
		})
	}
	utils.RespondSuccess(c, http.StatusOK, out)
}

// GetMessages returns one ascending page of the thread between the caller and
// :userId, plus the peer's presence, for the conversation screen.
func (ctl *ConversationController) GetMessages(c *gin.Context) {
	me := middlewares.CurrentUser(c)
	peerID := c.Param("userId")
	page, limit := pagination(c)

	conv, err := ctl.Conversations.FindBetween(me.ID, peerID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	msgPage, err := ctl.Messages.List(conv.ID, page, limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"conversationId": conv.ID,
		"messages":       msgPage.Messages,
		"hasMore":        msgPage.HasMore,
		"peer": gin.H{
			"id":           peerID,
			"online":       ctl.Presence.IsOnline(peerID),
			"activeStatus": ctl.peerActiveStatus(peerID),
		},
	})
}

func (ctl *ConversationController) peerActiveStatus(peerID string) interface{} {
	var peer models.User
	if err := ctl.DB.Select("active_status").Where("id = ?", peerID).First(&peer).Error; err != nil {
		return nil
	}
	return peer.ActiveStatus
}
