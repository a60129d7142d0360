package repositories

import (
	"errors"
	"time"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(n *models.Notification) error
	ListForUser(userID uint, onlyUnread bool) ([]models.Notification, error)
	MarkRead(id, userID uint) error
	UnreadCount(userID uint) (int64, error)
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(n *models.Notification) error {
	return r.db.Create(n).Error
}

func (r *NotificationRepositoryImpl) ListForUser(userID uint, onlyUnread bool) ([]models.Notification, error) {
	query := r.db.Where("user_id = ?", userID)
	if onlyUnread {
		query = query.Where("is_read = false")
	}
	var list []models.Notification
	err := query.Order("created_at DESC").Find(&list).Error
	return list, err
}

// MarkRead идемпотентен для уже прочитанных уведомлений
func (r *NotificationRepositoryImpl) MarkRead(id, userID uint) error {
	var count int64
	if err := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotificationNotFound
	}
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *NotificationRepositoryImpl) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	return count, err
}

// DeleteOlderThan чистит старые уведомления (вызывается фоновым воркером)
func (r *NotificationRepositoryImpl) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Delete(&models.Notification{}, "created_at < ?", cutoff)
	return result.RowsAffected, result.Error
}
