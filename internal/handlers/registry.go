package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	JobHandler          *JobHandler
	ChatHandler         *ChatHandler
	ReviewHandler       *ReviewHandler
	PayoutHandler       *PayoutHandler
	NotificationHandler *NotificationHandler
	UploadHandler       *UploadHandler
	FileHandler         *FileHandler
}
