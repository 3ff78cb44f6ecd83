package main

import (
	"log"

	"github.com/yaqoubhassan/express-chat-api/config"
	"github.com/yaqoubhassan/express-chat-api/models"
	"github.com/yaqoubhassan/express-chat-api/routes"
	"github.com/yaqoubhassan/express-chat-api/services"
	"github.com/yaqoubhassan/express-chat-api/utils"
)

func main() {
	cfg := config.Load()

	// 初始化数据库
	db := config.InitDB(cfg.DSN)
	// 自动迁移
	models.Migrate(db)

	tokens := services.NewTokenService(cfg.JWTSecret)
	email := utils.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	conversations := services.NewConversationService(db)
	messages := services.NewMessageService(db, conversations)

	manager := services.NewManager(db, messages, cfg.BaseURL)
	go manager.Run()

	r := routes.RegisterRoutes(routes.Deps{
		DB:            db,
		Tokens:        tokens,
		Email:         email,
		Conversations: conversations,
		Messages:      messages,
		Manager:       manager,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
