package chat

import (
	"errors"
	"fmt"
	"time"
)

// ErrSameParticipant — переписка с самим собой не поддерживается
var ErrSameParticipant = errors.New("chat: conversation requires two distinct participants")

// Conversation keyed by a derived composite id instead of a surrogate:
// u{min}u{max}j{jobID}. Two users share exactly one conversation per job,
// regardless of who wrote first.
type Conversation struct {
	ID        string    `gorm:"primaryKey"`
	UserLow   uint      `gorm:"not null;index"`
	UserHigh  uint      `gorm:"not null;index"`
	JobID     uint      `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"default:now()"`
}

// ConversationID derives the conversation key for two participants and a job.
// Commutative in its first two arguments: ConversationID(a, b, j) ==
// ConversationID(b, a, j). Every call site goes through this function,
// the format is never inlined elsewhere.
func ConversationID(userA, userB, jobID uint) (string, error) {
	if userA == userB {
		return "", ErrSameParticipant
	}
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}
	return fmt.Sprintf("u%du%dj%d", low, high, jobID), nil
}

// NewConversation builds the row for a participant pair and job
func NewConversation(userA, userB, jobID uint) (*Conversation, error) {
	id, err := ConversationID(userA, userB, jobID)
	if err != nil {
		return nil, err
	}
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}
	return &Conversation{
		ID:       id,
		UserLow:  low,
		UserHigh: high,
		JobID:    jobID,
	}, nil
}
