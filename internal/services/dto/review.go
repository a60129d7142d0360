package dto

import (
	"time"

	"workhub_backend/internal/models"
)

// ReviewInput — тело отзыва без адресата (адресат известен из контекста работы)
type ReviewInput struct {
	Title string  `json:"title" validate:"omitempty,max=200"`
	Body  string  `json:"body" validate:"omitempty,max=2000"`
	Stars float64 `json:"stars" validate:"required,is-stars"`
}

type CreateReviewRequest struct {
	ReviewInput
	ReviewedFor uint  `json:"reviewed_for" validate:"required"`
	JobID       *uint `json:"job_id"`
}

type ReviewResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title,omitempty"`
	Body        string    `json:"body,omitempty"`
	Stars       float64   `json:"stars"`
	ReviewedBy  uint      `json:"reviewed_by"`
	ReviewedFor uint      `json:"reviewed_for"`
	JobID       *uint     `json:"job_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromReview(r *models.Review) ReviewResponse {
	return ReviewResponse{
		ID:          r.ID,
		Title:       r.Title,
		Body:        r.Body,
		Stars:       r.Stars,
		ReviewedBy:  r.ReviewedBy,
		ReviewedFor: r.ReviewedFor,
		JobID:       r.JobID,
		CreatedAt:   r.CreatedAt,
	}
}

// RatingResponse — средний рейтинг, округленный до одного знака
type RatingResponse struct {
	UserID  uint    `json:"user_id"`
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}
