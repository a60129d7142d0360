package dto

import (
	"time"

	chatmodels "workhub_backend/internal/models/chat"
)

type CreateMessageRequest struct {
	Body   string `json:"body" validate:"required,min=1,max=5000"`
	SentTo uint   `json:"sent_to" validate:"required"`
	JobID  uint   `json:"job_id" validate:"required"`
}

// UpdateMessageRequest повторяет форму клиента: {"message": {"is_read": true}}
type UpdateMessageRequest struct {
	Message MessagePatch `json:"message" validate:"required"`
}

type MessagePatch struct {
	IsRead *bool `json:"is_read" validate:"required"`
}

type MessageResponse struct {
	ID             uint      `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SentBy         uint      `json:"sent_by"`
	SentTo         uint      `json:"sent_to"`
	Body           string    `json:"body"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

func FromMessage(m *chatmodels.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SentBy:         m.SentBy,
		SentTo:         m.SentTo,
		Body:           m.Body,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}

func FromMessages(msgs []chatmodels.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, FromMessage(&msgs[i]))
	}
	return out
}

// ConversationPreview — строка ленты "последнее сообщение каждой переписки"
type ConversationPreview struct {
	MessageResponse
	UnreadCount int64 `json:"unread_count"`
}
