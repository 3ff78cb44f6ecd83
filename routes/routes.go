package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yaqoubhassan/express-chat-api/controllers"
	"github.com/yaqoubhassan/express-chat-api/middlewares"
	"github.com/yaqoubhassan/express-chat-api/services"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

// Deps carries everything the route handlers need. Built once in main.
type Deps struct {
	DB            *gorm.DB
	Tokens        *services.TokenService
	Email         *utils.EmailSender
	Conversations *services.ConversationService
	Messages      *services.MessageService
	Manager       *services.Manager
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(deps Deps) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}
	r.Use(cors.New(corsConfig))

	auth := &controllers.AuthController{DB: deps.DB, Tokens: deps.Tokens, Email: deps.Email}
	users := &controllers.UserController{DB: deps.DB, Presence: deps.Manager.Presence()}
	conversations := &controllers.ConversationController{
		DB:            deps.DB,
		Conversations: deps.Conversations,
		Messages:      deps.Messages,
		Presence:      deps.Manager.Presence(),
	}
	messages := &controllers.MessageController{DB: deps.DB, Messages: deps.Messages, Manager: deps.Manager}
	ws := &controllers.WSController{DB: deps.DB, Manager: deps.Manager}

	r.GET("/ws", ws.HandleWS)
	r.Static("/public", "./public")

	api := r.Group("/api")
	{
		api.POST("/auth/register", auth.Register)
		api.POST("/auth/verify-email", auth.VerifyEmail)
		api.POST("/auth/resend-otp", auth.ResendOtp)
		api.POST("/auth/login", auth.Login)
	}

	protected := api.Group("")
	protected.Use(middlewares.TokenAuthMiddleware(deps.DB, deps.Tokens))
	{
		protected.GET("/users", users.GetUsers)
		protected.GET("/users/profile", users.GetProfile)
		protected.PUT("/users/update", users.UpdateProfile)

		protected.GET("/conversations", conversations.GetConversations)
		protected.GET("/conversations/:userId/messages", conversations.GetMessages)

		protected.POST("/messages", messages.SendMessage)
		protected.PATCH("/messages/:messageId", messages.UpdateMessage)
		protected.PATCH("/messages/:messageId/read", messages.MarkMessageRead)
	}

	return r
}
