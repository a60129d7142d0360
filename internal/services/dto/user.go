package dto

import (
	"time"

	"workhub_backend/internal/models"
)

type UserResponse struct {
	ID         uint      `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role"`
	Status     string    `json:"status"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromUser(u *models.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Phone:      u.Phone,
		Role:       string(u.Role),
		Status:     string(u.Status),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

type UpdateUserRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=100"`
	Phone *string `json:"phone" validate:"omitempty,max=20"`
}

// ProfileResponse — публичный профиль вместе с рейтингом по отзывам.
type ProfileResponse struct {
	UserResponse
	Rating *RatingResponse `json:"rating,omitempty"`
}
