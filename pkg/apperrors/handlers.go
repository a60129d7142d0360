package apperrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse — тело ответа при ошибке
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Domain  string `json:"domain"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// redactInternal включается в production: 500-е не раскрывают причину клиенту
var redactInternal bool

func SetProduction(production bool) {
	redactInternal = production
}

// As извлекает *AppError из цепочки ошибок
func As(err error, target **AppError) bool {
	return errors.As(err, target)
}

// ToResponse превращает ошибку в HTTP статус и тело ответа
func ToResponse(err error) (int, ErrorResponse) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = NewInternal("app", "internal server error", err)
	}

	body := ErrorBody{
		Code:    appErr.Code,
		Domain:  appErr.Domain,
		Message: appErr.Message,
		Details: appErr.Details,
	}

	if appErr.HTTPCode == http.StatusInternalServerError && redactInternal {
		body.Message = "internal server error"
		body.Details = nil
	}

	return appErr.HTTPCode, ErrorResponse{Error: body}
}

// HandleError сериализует ошибку в ответ и прерывает обработку запроса
func HandleError(c *gin.Context, err error) {
	status, body := ToResponse(err)
	c.AbortWithStatusJSON(status, body)
}
