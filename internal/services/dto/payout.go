package dto

import (
	"time"

	"workhub_backend/internal/models"

	"github.com/shopspring/decimal"
)

type CreatePayoutRequest struct {
	TransTo  uint            `json:"trans_to" validate:"required"`
	JobID    *uint           `json:"job_id"`
	Subtotal decimal.Decimal `json:"subtotal" validate:"required"`
	Tax      decimal.Decimal `json:"tax"`
	Tip      decimal.Decimal `json:"tip"`
}

type PayoutResponse struct {
	ID          uint            `json:"id"`
	TransBy     uint            `json:"trans_by"`
	TransTo     uint            `json:"trans_to"`
	JobID       *uint           `json:"job_id,omitempty"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	Tip         decimal.Decimal `json:"tip"`
	Total       decimal.Decimal `json:"total"`
	CheckoutURL string          `json:"checkout_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

func FromPayout(p *models.Payout) PayoutResponse {
	return PayoutResponse{
		ID:        p.ID,
		TransBy:   p.TransBy,
		TransTo:   p.TransTo,
		JobID:     p.JobID,
		Subtotal:  p.Subtotal,
		Tax:       p.Tax,
		Tip:       p.Tip,
		Total:     p.Total,
		CreatedAt: p.CreatedAt,
	}
}
