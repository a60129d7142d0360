package handlers

import (
	"workhub_backend/internal/middleware"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	reviews := r.Group("/reviews")
	{
		reviews.GET("/:id", h.GetReview)
		reviews.GET("/user/:userId", h.GetUserReviews)
		reviews.GET("/user/:userId/rating", h.GetUserRating)
		reviews.POST("/create", middleware.RequireAuth(), h.CreateReview)
	}
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, review)
}

func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	userID, ok := h.ParseParamUint(c, "userId")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, reviews)
}

// GetUserRating возвращает средний рейтинг, округленный до одного знака.
func (h *ReviewHandler) GetUserRating(c *gin.Context) {
	userID, ok := h.ParseParamUint(c, "userId")
	if !ok {
		return
	}

	rating, err := h.reviewService.Rating(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, rating)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	review, err := h.reviewService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondCreated(c, review)
}
