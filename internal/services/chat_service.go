package services

import (
	"context"
	"errors"
	"fmt"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	chatmodels "workhub_backend/internal/models/chat"
	"workhub_backend/internal/repositories"
	repochat "workhub_backend/internal/repositories/chat"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

// MessagePusher доставляет новые сообщения подключенным клиентам.
// Реализуется websocket-менеджером; nil допустим (push молча пропускается).
type MessagePusher interface {
	Push(userID uint, msg dto.MessageResponse)
}

type ChatService interface {
	CreateMessage(ctx context.Context, senderID uint, req dto.CreateMessageRequest) (*dto.MessageResponse, error)
	GetMessage(ctx context.Context, id uint) (*dto.MessageResponse, error)
	// GetConversation: сообщения одной переписки, новые сверху.
	// Отсутствие переписки — пустой результат, не ошибка.
	GetConversation(ctx context.Context, userA, userB, jobID uint) ([]dto.MessageResponse, error)
	// GetMessagesInvolving: все сообщения пользователя, хронологически.
	GetMessagesInvolving(ctx context.Context, userID uint) ([]dto.MessageResponse, error)
	// GetConversationPreviews: последнее сообщение каждой переписки.
	GetConversationPreviews(ctx context.Context, userID uint) ([]dto.ConversationPreview, error)
	UpdateReadStatus(ctx context.Context, callerID, messageID uint, isRead bool) (*dto.MessageResponse, error)
	MarkConversationRead(ctx context.Context, callerID, otherID, jobID uint) (int64, error)
}

type ChatServiceImpl struct {
	chatRepo  repochat.ChatRepository
	userRepo  repositories.UserRepository
	jobRepo   repositories.JobRepository
	notifRepo repositories.NotificationRepository
	pusher    MessagePusher
}

func NewChatService(
	chatRepo repochat.ChatRepository,
	userRepo repositories.UserRepository,
	jobRepo repositories.JobRepository,
	notifRepo repositories.NotificationRepository,
	pusher MessagePusher,
) ChatService {
	return &ChatServiceImpl{
		chatRepo:  chatRepo,
		userRepo:  userRepo,
		jobRepo:   jobRepo,
		notifRepo: notifRepo,
		pusher:    pusher,
	}
}

// ---------------- Create ----------------

func (s *ChatServiceImpl) CreateMessage(ctx context.Context, senderID uint, req dto.CreateMessageRequest) (*dto.MessageResponse, error) {
	conv, err := chatmodels.NewConversation(senderID, req.SentTo, req.JobID)
	if err != nil {
		if errors.Is(err, chatmodels.ErrSameParticipant) {
			return nil, apperrors.NewBadRequest(apperrors.DomainChat, "cannot send a message to yourself")
		}
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to derive conversation", err)
	}

	if _, err := s.userRepo.FindByID(req.SentTo); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainChat, fmt.Sprintf("no user found with id %d", req.SentTo))
		}
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to look up recipient", err)
	}

	if _, err := s.jobRepo.FindByID(req.JobID); err != nil {
		if errors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainChat, fmt.Sprintf("no job found with id %d", req.JobID))
		}
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to look up job", err)
	}

	msg := &chatmodels.Message{
		SentBy: senderID,
		SentTo: req.SentTo,
		Body:   req.Body,
	}

	if err := s.chatRepo.CreateMessage(conv, msg); err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to create message", err)
	}

	resp := dto.FromMessage(msg)

	// Уведомление и push — best effort, сообщение уже сохранено
	notification := &models.Notification{
		UserID: req.SentTo,
		Type:   models.NotificationTypeNewMessage,
		Title:  "New message",
		Body:   req.Body,
	}
	if err := s.notifRepo.Create(notification); err != nil {
		logger.CtxWarn(ctx, "failed to create message notification", "error", err.Error())
	}
	if s.pusher != nil {
		s.pusher.Push(req.SentTo, resp)
	}

	logger.CtxInfo(ctx, "message created",
		"conversation_id", msg.ConversationID,
		"message_id", msg.ID,
	)
	return &resp, nil
}

// ---------------- Read ----------------

func (s *ChatServiceImpl) GetMessage(ctx context.Context, id uint) (*dto.MessageResponse, error) {
	msg, err := s.chatRepo.GetMessageByID(id)
	if err != nil {
		if errors.Is(err, repochat.ErrMessageNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainChat, fmt.Sprintf("no message found with id %d", id))
		}
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to fetch message", err)
	}
	resp := dto.FromMessage(msg)
	return &resp, nil
}

func (s *ChatServiceImpl) GetConversation(ctx context.Context, userA, userB, jobID uint) ([]dto.MessageResponse, error) {
	convID, err := chatmodels.ConversationID(userA, userB, jobID)
	if err != nil {
		return nil, apperrors.NewBadRequest(apperrors.DomainChat, "conversation requires two distinct participants")
	}

	msgs, err := s.chatRepo.GetConversationMessages(convID)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to fetch conversation", err)
	}
	return dto.FromMessages(msgs), nil
}

func (s *ChatServiceImpl) GetMessagesInvolving(ctx context.Context, userID uint) ([]dto.MessageResponse, error) {
	msgs, err := s.chatRepo.GetMessagesInvolving(userID)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to fetch messages", err)
	}
	return dto.FromMessages(msgs), nil
}

func (s *ChatServiceImpl) GetConversationPreviews(ctx context.Context, userID uint) ([]dto.ConversationPreview, error) {
	msgs, err := s.chatRepo.GetRecentPerConversation(userID)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to fetch conversation previews", err)
	}

	previews := make([]dto.ConversationPreview, 0, len(msgs))
	for i := range msgs {
		unread, err := s.chatRepo.UnreadCount(msgs[i].ConversationID, userID)
		if err != nil {
			return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to count unread messages", err)
		}
		previews = append(previews, dto.ConversationPreview{
			MessageResponse: dto.FromMessage(&msgs[i]),
			UnreadCount:     unread,
		})
	}
	return previews, nil
}

// ---------------- Update ----------------

func (s *ChatServiceImpl) UpdateReadStatus(ctx context.Context, callerID, messageID uint, isRead bool) (*dto.MessageResponse, error) {
	msg, err := s.chatRepo.GetMessageByID(messageID)
	if err != nil {
		if errors.Is(err, repochat.ErrMessageNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainChat, fmt.Sprintf("no message found with id %d", messageID))
		}
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to fetch message", err)
	}

	if msg.SentBy != callerID && msg.SentTo != callerID {
		return nil, apperrors.NewForbidden(apperrors.DomainChat, "not a participant of this conversation")
	}

	// Идемпотентно: повторная установка того же значения — успех
	if err := s.chatRepo.UpdateReadStatus(messageID, isRead); err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainChat, "failed to update read status", err)
	}

	msg.IsRead = isRead
	resp := dto.FromMessage(msg)
	return &resp, nil
}

func (s *ChatServiceImpl) MarkConversationRead(ctx context.Context, callerID, otherID, jobID uint) (int64, error) {
	convID, err := chatmodels.ConversationID(callerID, otherID, jobID)
	if err != nil {
		return 0, apperrors.NewBadRequest(apperrors.DomainChat, "conversation requires two distinct participants")
	}

	updated, err := s.chatRepo.MarkConversationRead(convID, callerID)
	if err != nil {
		return 0, apperrors.NewInternal(apperrors.DomainChat, "failed to mark conversation read", err)
	}
	return updated, nil
}
