package models

import (
	"log"

	"gorm.io/gorm"
)

// Migrate 自动迁移
func Migrate(db *gorm.DB) {
	if err := db.AutoMigrate(&User{}, &Conversation{}, &Message{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}
