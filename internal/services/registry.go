package services

import (
	"workhub_backend/internal/email"
	"workhub_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	UserService         UserService
	JobService          JobService
	ChatService         ChatService
	ReviewService       ReviewService
	PayoutService       PayoutService
	NotificationService NotificationService
	UploadService       UploadService
	EmailService        email.Provider
	Storage             storage.Storage
}
