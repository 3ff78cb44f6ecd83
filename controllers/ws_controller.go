package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/services"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WSController struct {
	DB      *gorm.DB
	Manager *services.Manager
}

// HandleWS upgrades the connection and subscribes it to the user's channel.
// The user identity arrives as a query parameter, matching the client.
func (ctl *WSController) HandleWS(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.RespondError(c, utils.Validation("userId query parameter is required"))
		return
	}
	var user models.User
	if err := ctl.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		utils.RespondError(c, utils.NotFound("User not found"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}

	client := services.NewClient(ctl.Manager, conn, userID)
	ctl.Manager.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
