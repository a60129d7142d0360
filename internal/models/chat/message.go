package chat

import "time"

// Message is immutable after insert except for IsRead, which flips to true
// when the recipient opens the conversation.
type Message struct {
	ID             uint      `gorm:"primaryKey"`
	ConversationID string    `gorm:"not null;index"`
	SentBy         uint      `gorm:"not null;index"`
	SentTo         uint      `gorm:"not null;index"`
	Body           string    `gorm:"type:text;not null"`
	IsRead         bool      `gorm:"default:false"`
	CreatedAt      time.Time `gorm:"default:now()"`

	Conversation Conversation `gorm:"foreignKey:ConversationID"`
}
