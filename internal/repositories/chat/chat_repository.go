package chat

import (
	"errors"

	chatmodels "workhub_backend/internal/models/chat"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMessageNotFound = errors.New("message not found")

type ChatRepository interface {
	// CreateMessage атомарно создает переписку (если ее еще нет) и сообщение
	CreateMessage(conv *chatmodels.Conversation, msg *chatmodels.Message) error
	GetMessageByID(id uint) (*chatmodels.Message, error)
	// GetConversationMessages: новые сверху
	GetConversationMessages(conversationID string) ([]chatmodels.Message, error)
	// GetMessagesInvolving: хронологический порядок, старые сверху
	GetMessagesInvolving(userID uint) ([]chatmodels.Message, error)
	// GetRecentPerConversation: по одному последнему сообщению на переписку
	GetRecentPerConversation(userID uint) ([]chatmodels.Message, error)
	UpdateReadStatus(messageID uint, isRead bool) error
	MarkConversationRead(conversationID string, recipientID uint) (int64, error)
	UnreadCount(conversationID string, recipientID uint) (int64, error)
	ConversationExists(conversationID string) (bool, error)
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

// CreateMessage закрывает гонку "двух первых сообщений": upsert переписки и
// вставка сообщения идут одной транзакцией, конфликт по производному ключу
// молча переиспользует существующую строку.
func (r *ChatRepositoryImpl) CreateMessage(conv *chatmodels.Conversation, msg *chatmodels.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(conv).Error; err != nil {
			return err
		}
		msg.ConversationID = conv.ID
		return tx.Create(msg).Error
	})
}

func (r *ChatRepositoryImpl) GetMessageByID(id uint) (*chatmodels.Message, error) {
	var msg chatmodels.Message
	err := r.db.First(&msg, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *ChatRepositoryImpl) GetConversationMessages(conversationID string) ([]chatmodels.Message, error) {
	var msgs []chatmodels.Message
	err := r.db.
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Find(&msgs).Error
	return msgs, err
}

func (r *ChatRepositoryImpl) GetMessagesInvolving(userID uint) ([]chatmodels.Message, error) {
	var msgs []chatmodels.Message
	err := r.db.
		Where("sent_by = ? OR sent_to = ?", userID, userID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

// GetRecentPerConversation возвращает ленту превью: для каждой переписки
// пользователя ровно одно сообщение с максимальным created_at, итог
// отсортирован по этому времени по возрастанию. Сообщения с одинаковым
// created_at разводятся по id, иначе переписка попала бы в ленту дважды.
func (r *ChatRepositoryImpl) GetRecentPerConversation(userID uint) ([]chatmodels.Message, error) {
	var msgs []chatmodels.Message
	err := r.db.Raw(`
		SELECT * FROM (
			SELECT DISTINCT ON (conversation_id) *
			FROM messages
			WHERE sent_by = ? OR sent_to = ?
			ORDER BY conversation_id, created_at DESC, id DESC
		) latest
		ORDER BY latest.created_at ASC, latest.id ASC`, userID, userID).
		Scan(&msgs).Error
	return msgs, err
}

// UpdateReadStatus идемпотентен: повторная установка того же значения —
// успешный no-op, а не ошибка.
func (r *ChatRepositoryImpl) UpdateReadStatus(messageID uint, isRead bool) error {
	var count int64
	if err := r.db.Model(&chatmodels.Message{}).Where("id = ?", messageID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrMessageNotFound
	}
	return r.db.Model(&chatmodels.Message{}).
		Where("id = ?", messageID).
		Update("is_read", isRead).Error
}

// MarkConversationRead помечает прочитанными все входящие сообщения получателя
func (r *ChatRepositoryImpl) MarkConversationRead(conversationID string, recipientID uint) (int64, error) {
	result := r.db.Model(&chatmodels.Message{}).
		Where("conversation_id = ? AND sent_to = ? AND is_read = false", conversationID, recipientID).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

func (r *ChatRepositoryImpl) UnreadCount(conversationID string, recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&chatmodels.Message{}).
		Where("conversation_id = ? AND sent_to = ? AND is_read = false", conversationID, recipientID).
		Count(&count).Error
	return count, err
}

func (r *ChatRepositoryImpl) ConversationExists(conversationID string) (bool, error) {
	var count int64
	err := r.db.Model(&chatmodels.Conversation{}).
		Where("id = ?", conversationID).
		Count(&count).Error
	return count > 0, err
}
