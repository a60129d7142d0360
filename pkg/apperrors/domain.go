package apperrors

// Домены ошибок — по подсистемам приложения
const (
	DomainAuth         = "auth"
	DomainUser         = "user"
	DomainJob          = "job"
	DomainApplication  = "application"
	DomainChat         = "chat"
	DomainReview       = "review"
	DomainPayout       = "payout"
	DomainNotification = "notification"
	DomainUpload       = "upload"
	DomainStorage      = "storage"
	DomainEmail        = "email"
)
