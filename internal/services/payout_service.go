package services

import (
	"context"
	"errors"
	"fmt"

	"workhub_backend/internal/config"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
)

type PayoutService interface {
	Create(ctx context.Context, transBy uint, req dto.CreatePayoutRequest) (*dto.PayoutResponse, error)
	// CreateForJob формирует выплату из payment_due завершенной работы
	CreateForJob(ctx context.Context, transBy, transTo, jobID uint, paymentDue, tip float64) (*dto.PayoutResponse, error)
	Get(ctx context.Context, id uint) (*dto.PayoutResponse, error)
	ListForUser(ctx context.Context, userID uint) ([]dto.PayoutResponse, error)
}

type PayoutServiceImpl struct {
	payoutRepo repositories.PayoutRepository
	userRepo   repositories.UserRepository
	payCfg     config.PaymentConfig
}

func NewPayoutService(
	payoutRepo repositories.PayoutRepository,
	userRepo repositories.UserRepository,
	payCfg config.PaymentConfig,
) PayoutService {
	return &PayoutServiceImpl{
		payoutRepo: payoutRepo,
		userRepo:   userRepo,
		payCfg:     payCfg,
	}
}

func (s *PayoutServiceImpl) Create(ctx context.Context, transBy uint, req dto.CreatePayoutRequest) (*dto.PayoutResponse, error) {
	if _, err := s.userRepo.FindByID(req.TransTo); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainPayout, fmt.Sprintf("no user found with id %d", req.TransTo))
		}
		return nil, apperrors.NewInternal(apperrors.DomainPayout, "failed to look up recipient", err)
	}
	if req.Subtotal.IsNegative() || req.Tax.IsNegative() || req.Tip.IsNegative() {
		return nil, apperrors.NewBadRequest(apperrors.DomainPayout, "amounts must not be negative")
	}

	payout := &models.Payout{
		TransBy:  transBy,
		TransTo:  req.TransTo,
		JobID:    req.JobID,
		Subtotal: req.Subtotal,
		Tax:      req.Tax,
		Tip:      req.Tip,
		Total:    req.Subtotal.Add(req.Tax).Add(req.Tip),
	}
	if err := s.payoutRepo.Create(payout); err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainPayout, "failed to create payout", err)
	}

	logger.CtxInfo(ctx, "payout recorded", "payout_id", payout.ID, "total", payout.Total.String())
	resp := dto.FromPayout(payout)
	return &resp, nil
}

// CreateForJob: subtotal = payment_due, tax = комиссия площадки,
// total = subtotal + tax + tip. Денежная арифметика — decimal.
func (s *PayoutServiceImpl) CreateForJob(ctx context.Context, transBy, transTo, jobID uint, paymentDue, tip float64) (*dto.PayoutResponse, error) {
	subtotal := decimal.NewFromFloat(paymentDue).Round(2)
	feePercent := decimal.NewFromFloat(s.payCfg.PlatformFeePercent)
	tax := subtotal.Mul(feePercent).Div(decimal.NewFromInt(100)).Round(2)

	return s.Create(ctx, transBy, dto.CreatePayoutRequest{
		TransTo:  transTo,
		JobID:    &jobID,
		Subtotal: subtotal,
		Tax:      tax,
		Tip:      decimal.NewFromFloat(tip).Round(2),
	})
}

func (s *PayoutServiceImpl) Get(ctx context.Context, id uint) (*dto.PayoutResponse, error) {
	payout, err := s.payoutRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainPayout, fmt.Sprintf("no payout found with id %d", id))
		}
		return nil, apperrors.NewInternal(apperrors.DomainPayout, "failed to fetch payout", err)
	}
	resp := dto.FromPayout(payout)
	return &resp, nil
}

func (s *PayoutServiceImpl) ListForUser(ctx context.Context, userID uint) ([]dto.PayoutResponse, error) {
	payouts, err := s.payoutRepo.ListForUser(userID)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainPayout, "failed to list payouts", err)
	}
	out := make([]dto.PayoutResponse, 0, len(payouts))
	for i := range payouts {
		out = append(out, dto.FromPayout(&payouts[i]))
	}
	return out, nil
}
