package repositories

import (
	"errors"

	"workhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound       = errors.New("review not found")
	ErrSelfReviewNotAllowed = errors.New("cannot review yourself")
	ErrInvalidReviewStars   = errors.New("stars must be between 1 and 5")
)

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByID(id uint) (*models.Review, error)
	FindForUser(reviewedFor uint) ([]models.Review, error)
	FindByAuthor(reviewedBy uint) ([]models.Review, error)
	// AverageForUser считает средний рейтинг; 0 при отсутствии отзывов
	AverageForUser(reviewedFor uint) (float64, int64, error)
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Create(review *models.Review) error {
	if review.Stars < 1 || review.Stars > 5 {
		return ErrInvalidReviewStars
	}
	if review.ReviewedBy == review.ReviewedFor {
		return ErrSelfReviewNotAllowed
	}
	return r.db.Create(review).Error
}

func (r *ReviewRepositoryImpl) FindByID(id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("Reviewer").Preload("Reviewee").First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindForUser(reviewedFor uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Reviewer").
		Where("reviewed_for = ?", reviewedFor).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) FindByAuthor(reviewedBy uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Preload("Reviewee").
		Where("reviewed_by = ?", reviewedBy).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) AverageForUser(reviewedFor uint) (float64, int64, error) {
	var avg float64
	var count int64
	if err := r.db.Model(&models.Review{}).Where("reviewed_for = ?", reviewedFor).
		Count(&count).Error; err != nil {
		return 0, 0, err
	}
	err := r.db.Model(&models.Review{}).Where("reviewed_for = ?", reviewedFor).
		Select("COALESCE(AVG(stars), 0)").Scan(&avg).Error
	return avg, count, err
}
