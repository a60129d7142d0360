package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"workhub_backend/internal/email"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"
)

type ReviewService interface {
	Create(ctx context.Context, reviewerID uint, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Get(ctx context.Context, id uint) (*dto.ReviewResponse, error)
	ListForUser(ctx context.Context, userID uint) ([]dto.ReviewResponse, error)
	// Rating — средний рейтинг пользователя, округленный до одного знака
	Rating(ctx context.Context, userID uint) (*dto.RatingResponse, error)
}

type ReviewServiceImpl struct {
	reviewRepo repositories.ReviewRepository
	userRepo   repositories.UserRepository
	notifRepo  repositories.NotificationRepository
	mailer     email.Provider
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	mailer email.Provider,
) ReviewService {
	return &ReviewServiceImpl{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		notifRepo:  notifRepo,
		mailer:     mailer,
	}
}

func (s *ReviewServiceImpl) Create(ctx context.Context, reviewerID uint, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	reviewee, err := s.userRepo.FindByID(req.ReviewedFor)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainReview, fmt.Sprintf("no user found with id %d", req.ReviewedFor))
		}
		return nil, apperrors.NewInternal(apperrors.DomainReview, "failed to look up reviewee", err)
	}

	review := &models.Review{
		Title:       req.Title,
		Body:        req.Body,
		Stars:       req.Stars,
		ReviewedBy:  reviewerID,
		ReviewedFor: req.ReviewedFor,
		JobID:       req.JobID,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		switch {
		case errors.Is(err, repositories.ErrInvalidReviewStars):
			return nil, apperrors.NewBadRequest(apperrors.DomainReview, "stars must be between 1 and 5")
		case errors.Is(err, repositories.ErrSelfReviewNotAllowed):
			return nil, apperrors.NewBadRequest(apperrors.DomainReview, "cannot review yourself")
		}
		return nil, apperrors.NewInternal(apperrors.DomainReview, "failed to create review", err)
	}

	n := &models.Notification{
		UserID: req.ReviewedFor,
		Type:   models.NotificationTypeReviewCreated,
		Title:  "New review",
		Body:   fmt.Sprintf("You received a %.1f star review.", req.Stars),
	}
	if err := s.notifRepo.Create(n); err != nil {
		logger.CtxWarn(ctx, "failed to create review notification", "error", err.Error())
	}

	reviewerName := fmt.Sprintf("User %d", reviewerID)
	if reviewer, err := s.userRepo.FindByID(reviewerID); err == nil {
		reviewerName = reviewer.Name
	}
	if err := s.mailer.SendTemplate(reviewee.Email, email.TemplateReviewLeft, email.TemplateData{
		"Name":         reviewee.Name,
		"ReviewerName": reviewerName,
		"Stars":        fmt.Sprintf("%.1f", req.Stars),
	}); err != nil {
		logger.CtxWarn(ctx, "failed to send review email", "error", err.Error())
	}

	resp := dto.FromReview(review)
	return &resp, nil
}

func (s *ReviewServiceImpl) Get(ctx context.Context, id uint) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainReview, fmt.Sprintf("no review found with id %d", id))
		}
		return nil, apperrors.NewInternal(apperrors.DomainReview, "failed to fetch review", err)
	}
	resp := dto.FromReview(review)
	return &resp, nil
}

func (s *ReviewServiceImpl) ListForUser(ctx context.Context, userID uint) ([]dto.ReviewResponse, error) {
	reviews, err := s.reviewRepo.FindForUser(userID)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainReview, "failed to list reviews", err)
	}
	out := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, dto.FromReview(&reviews[i]))
	}
	return out, nil
}

func (s *ReviewServiceImpl) Rating(ctx context.Context, userID uint) (*dto.RatingResponse, error) {
	avg, count, err := s.reviewRepo.AverageForUser(userID)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainReview, "failed to compute rating", err)
	}
	return &dto.RatingResponse{
		UserID:  userID,
		Average: RoundRating(avg),
		Count:   count,
	}, nil
}

// RoundRating округляет средний рейтинг до одного знака после запятой:
// [1, 2] -> 1.5, [1, 2, 3] -> 2.0
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
