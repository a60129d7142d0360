package handlers

import (
	"workhub_backend/internal/middleware"
	"workhub_backend/internal/models"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"
	"workhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type PayoutHandler struct {
	*BaseHandler
	payoutService services.PayoutService
}

func NewPayoutHandler(base *BaseHandler, payoutService services.PayoutService) *PayoutHandler {
	return &PayoutHandler{
		BaseHandler:   base,
		payoutService: payoutService,
	}
}

func (h *PayoutHandler) RegisterRoutes(r *gin.RouterGroup) {
	payouts := r.Group("/payouts")
	payouts.Use(middleware.RequireAuth())
	{
		payouts.POST("/create", h.CreatePayout)
		payouts.GET("/:id", h.GetPayout)
		payouts.GET("/user/:userId", h.GetUserPayouts)
	}
}

func (h *PayoutHandler) CreatePayout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePayoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	payout, err := h.payoutService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondCreated(c, payout)
}

// GetPayout отдает выплату только ее участникам.
func (h *PayoutHandler) GetPayout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	payout, err := h.payoutService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if payout.TransBy != userID && payout.TransTo != userID && middleware.GetRole(c) != models.UserRoleAdmin {
		h.HandleServiceError(c, apperrors.NewForbidden(apperrors.DomainPayout, "not a party to this payout"))
		return
	}

	respondOK(c, payout)
}

func (h *PayoutHandler) GetUserPayouts(c *gin.Context) {
	callerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	userID, ok := h.ParseParamUint(c, "userId")
	if !ok {
		return
	}

	if userID != callerID && middleware.GetRole(c) != models.UserRoleAdmin {
		h.HandleServiceError(c, apperrors.NewForbidden(apperrors.DomainPayout, "cannot view another user's payouts"))
		return
	}

	payouts, err := h.payoutService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, payouts)
}
