package database

import (
	"workhub_backend/internal/models"
	chatmodels "workhub_backend/internal/models/chat"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Job{},
		&models.Application{},
		&models.Review{},
		&models.Payout{},
		&models.Notification{},
		&models.Upload{},
		// chat модуль
		&chatmodels.Conversation{},
		&chatmodels.Message{},
	)
}
