package repositories

import (
	"errors"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPayoutNotFound = errors.New("payout not found")

// PayoutRepository — журнал выплат, только вставка и чтение
type PayoutRepository interface {
	Create(payout *models.Payout) error
	FindByID(id uint) (*models.Payout, error)
	ListForUser(userID uint) ([]models.Payout, error)
}

type PayoutRepositoryImpl struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) PayoutRepository {
	return &PayoutRepositoryImpl{db: db}
}

func (r *PayoutRepositoryImpl) Create(payout *models.Payout) error {
	return r.db.Create(payout).Error
}

func (r *PayoutRepositoryImpl) FindByID(id uint) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.First(&payout, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

func (r *PayoutRepositoryImpl) ListForUser(userID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.
		Where("trans_to = ? OR trans_by = ?", userID, userID).
		Order("created_at DESC").
		Find(&payouts).Error
	return payouts, err
}
