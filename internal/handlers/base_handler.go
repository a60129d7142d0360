package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/validator"
	"workhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// BaseHandler содержит общие зависимости и хелперы для всех хэндлеров.
type BaseHandler struct {
	validator *validator.Validator
}

func NewBaseHandler(v *validator.Validator) *BaseHandler {
	return &BaseHandler{validator: v}
}

// BindAndValidate_JSON биндит JSON-тело и прогоняет его через валидатор.
// При ошибке сам пишет ответ и возвращает false.
func (h *BaseHandler) BindAndValidate_JSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequest("request", "invalid request body").WithError(err))
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		h.HandleServiceError(c, validationError(err))
		return false
	}

	return true
}

// BindAndValidate_Query то же самое для query-параметров.
func (h *BaseHandler) BindAndValidate_Query(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequest("request", "invalid query parameters").WithError(err))
		return false
	}

	if err := h.validator.Validate(req); err != nil {
		h.HandleServiceError(c, validationError(err))
		return false
	}

	return true
}

func validationError(err error) error {
	var vErr *validator.ValidationError
	if errors.As(err, &vErr) {
		return apperrors.NewValidation("request", "validation failed", vErr.Errors)
	}
	return apperrors.NewValidation("request", err.Error(), nil)
}

// HandleServiceError переводит ошибку сервиса в HTTP-ответ.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	apperrors.HandleError(c, err)
}

// GetAndAuthorizeUserID достает ID пользователя из контекста.
// Возвращает false и пишет 401, если запрос анонимный.
func (h *BaseHandler) GetAndAuthorizeUserID(c *gin.Context) (uint, bool) {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		h.HandleServiceError(c, apperrors.NewUnauthorized("auth", "authentication required"))
		return 0, false
	}
	return userID, true
}

// ParseParamUint парсит числовой path-параметр.
// При ошибке сам пишет 400 и возвращает false.
func (h *BaseHandler) ParseParamUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequest("request", "invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}

// ParsePagination читает page и page_size с разумными дефолтами.
func ParsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return page, pageSize
}

func respondOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

func respondCreated(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}
