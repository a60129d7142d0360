package models

// Типы уведомлений
const (
	NotificationTypeJobAssigned   = "job_assigned"
	NotificationTypeJobStatus     = "job_status"
	NotificationTypeNewMessage    = "new_message"
	NotificationTypeReviewCreated = "review_created"
)

type Notification struct {
	BaseModel
	UserID uint   `gorm:"not null;index"`
	Type   string `gorm:"type:varchar(32);not null"`
	Title  string `gorm:"not null"`
	Body   string `gorm:"type:text"`
	IsRead bool   `gorm:"default:false"`
}
