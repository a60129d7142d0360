package dto

import (
	"time"

	"workhub_backend/internal/models"
)

type CreateJobRequest struct {
	Title      string   `json:"title" validate:"required,min=3,max=200"`
	Body       string   `json:"body" validate:"omitempty,max=5000"`
	Address    string   `json:"address" validate:"omitempty,max=300"`
	City       string   `json:"city" validate:"omitempty,max=100"`
	Tags       []string `json:"tags" validate:"omitempty,max=20,dive,max=40"`
	HourlyRate *float64 `json:"hourly_rate" validate:"omitempty,gt=0"`
}

// JobPatch — частичное обновление: произвольное подмножество изменяемых
// колонок. Сервис валидирует ключи, ответ эхом возвращает только их.
type JobPatch map[string]any

type AssignRequest struct {
	WorkerID uint `json:"worker_id" validate:"required"`
}

type FinishJobRequest struct {
	// Ссылка на загруженный артефакт результата работы
	AfterImageURL string `json:"after_image_url" validate:"required,max=500"`
}

type CompleteJobRequest struct {
	Tip    *float64     `json:"tip" validate:"omitempty,gte=0"`
	Review *ReviewInput `json:"review" validate:"omitempty"`
}

// CompleteJobResponse — итог завершения: работа плюс созданные при
// завершении отзыв и выплата (если были запрошены)
type CompleteJobResponse struct {
	Job    JobResponse     `json:"job"`
	Review *ReviewResponse `json:"review,omitempty"`
	Payout *PayoutResponse `json:"payout,omitempty"`
}

type JobResponse struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	Body           string     `json:"body,omitempty"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	Tags           []string   `json:"tags,omitempty"`
	HourlyRate     float64    `json:"hourly_rate"`
	Status         string     `json:"status"`
	PostedBy       uint       `json:"posted_by"`
	AssignedTo     *uint      `json:"assigned_to,omitempty"`
	StartTime      *time.Time `json:"start_time,omitempty"`
	EndTime        *time.Time `json:"end_time,omitempty"`
	PaymentDue     *float64   `json:"payment_due,omitempty"`
	BeforeImageURL *string    `json:"before_image_url,omitempty"`
	AfterImageURL  *string    `json:"after_image_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

func FromJob(j *models.Job) JobResponse {
	resp := JobResponse{
		ID:             j.ID,
		Title:          j.Title,
		Body:           j.Body,
		Address:        j.Address,
		City:           j.City,
		HourlyRate:     j.HourlyRate,
		Status:         string(j.Status),
		PostedBy:       j.PostedBy,
		AssignedTo:     j.AssignedTo,
		StartTime:      j.StartTime,
		EndTime:        j.EndTime,
		PaymentDue:     j.PaymentDue,
		BeforeImageURL: j.BeforeImageURL,
		AfterImageURL:  j.AfterImageURL,
		CreatedAt:      j.CreatedAt,
	}
	resp.Tags = TagsFromJSON(j.Tags)
	return resp
}

type ApplicationResponse struct {
	ID        uint      `json:"id"`
	AppliedBy uint      `json:"applied_by"`
	AppliedTo uint      `json:"applied_to"`
	CreatedAt time.Time `json:"created_at"`
}

func FromApplication(a *models.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:        a.ID,
		AppliedBy: a.AppliedBy,
		AppliedTo: a.AppliedTo,
		CreatedAt: a.CreatedAt,
	}
}
