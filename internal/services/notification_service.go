package services

import (
	"context"
	"errors"

	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID uint, onlyUnread bool) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, userID, id uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

type NotificationServiceImpl struct {
	notifRepo repositories.NotificationRepository
}

func NewNotificationService(notifRepo repositories.NotificationRepository) NotificationService {
	return &NotificationServiceImpl{notifRepo: notifRepo}
}

func (s *NotificationServiceImpl) ListForUser(ctx context.Context, userID uint, onlyUnread bool) ([]dto.NotificationResponse, error) {
	list, err := s.notifRepo.ListForUser(userID, onlyUnread)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainNotification, "failed to list notifications", err)
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.FromNotification(&list[i]))
	}
	return out, nil
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID, id uint) error {
	if err := s.notifRepo.MarkRead(id, userID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.NewNotFound(apperrors.DomainNotification, "notification not found")
		}
		return apperrors.NewInternal(apperrors.DomainNotification, "failed to mark notification read", err)
	}
	return nil
}

func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	count, err := s.notifRepo.UnreadCount(userID)
	if err != nil {
		return 0, apperrors.NewInternal(apperrors.DomainNotification, "failed to count notifications", err)
	}
	return count, nil
}
