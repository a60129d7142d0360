package handlers

import (
	"workhub_backend/internal/middleware"
	"workhub_backend/internal/services"
	"workhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService   services.UserService
	reviewService services.ReviewService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, reviewService services.ReviewService) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		userService:   userService,
		reviewService: reviewService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/me", middleware.RequireAuth(), h.GetMe)
		users.PUT("/me", middleware.RequireAuth(), h.UpdateMe)
		users.GET("/:id", h.GetUser)
	}
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, user)
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, user)
}

// GetUser возвращает публичный профиль вместе с рейтингом по отзывам.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	rating, err := h.reviewService.Rating(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, dto.ProfileResponse{UserResponse: *user, Rating: rating})
}
