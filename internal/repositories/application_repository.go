package repositories

import (
	"errors"
	"strings"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("user already applied to this job")
)

type ApplicationRepository interface {
	Create(app *models.Application) error
	Delete(appliedBy, appliedTo uint) error
	Exists(appliedBy, appliedTo uint) (bool, error)
	ListForJob(jobID uint) ([]models.Application, error)
	ListForUser(userID uint) ([]models.Application, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(app *models.Application) error {
	err := r.db.Create(app).Error
	if err != nil {
		// Повторная заявка упирается в уникальный индекс пары
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(err.Error(), "idx_applications_pair") {
			return ErrAlreadyApplied
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) Delete(appliedBy, appliedTo uint) error {
	result := r.db.Delete(&models.Application{}, "applied_by = ? AND applied_to = ?", appliedBy, appliedTo)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) Exists(appliedBy, appliedTo uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("applied_by = ? AND applied_to = ?", appliedBy, appliedTo).
		Count(&count).Error
	return count > 0, err
}

func (r *ApplicationRepositoryImpl) ListForJob(jobID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Preload("Applicant").
		Where("applied_to = ?", jobID).
		Order("created_at ASC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) ListForUser(userID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.Preload("Job").
		Where("applied_by = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}
