package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError — единый тип ошибки приложения.
// Несет машинный код, домен возникновения и HTTP статус для транспорта.
type AppError struct {
	Code     string `json:"code"`
	Domain   string `json:"domain"`
	Message  string `json:"message"`
	Details  any    `json:"details,omitempty"`
	Err      error  `json:"-"`
	HTTPCode int    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s/%s] %s: %v", e.Domain, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Domain, e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails возвращает копию ошибки с деталями
func (e *AppError) WithDetails(details any) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// WithError возвращает копию ошибки с обернутой причиной
func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// AsAppError извлекает *AppError из цепочки ошибок
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// ---------------- Фабрики ----------------

func NewNotFound(domain, message string) *AppError {
	return &AppError{
		Code:     CodeNotFound,
		Domain:   domain,
		Message:  message,
		HTTPCode: http.StatusNotFound,
	}
}

func NewBadRequest(domain, message string) *AppError {
	return &AppError{
		Code:     CodeBadRequest,
		Domain:   domain,
		Message:  message,
		HTTPCode: http.StatusBadRequest,
	}
}

func NewValidation(domain, message string, details any) *AppError {
	return &AppError{
		Code:     CodeValidation,
		Domain:   domain,
		Message:  message,
		Details:  details,
		HTTPCode: http.StatusBadRequest,
	}
}

func NewUnauthorized(domain, message string) *AppError {
	return &AppError{
		Code:     CodeUnauthorized,
		Domain:   domain,
		Message:  message,
		HTTPCode: http.StatusUnauthorized,
	}
}

func NewForbidden(domain, message string) *AppError {
	return &AppError{
		Code:     CodeForbidden,
		Domain:   domain,
		Message:  message,
		HTTPCode: http.StatusForbidden,
	}
}

func NewConflict(domain, message string) *AppError {
	return &AppError{
		Code:     CodeConflict,
		Domain:   domain,
		Message:  message,
		HTTPCode: http.StatusConflict,
	}
}

// NewInvalidTransition — запрошенный переход статуса невозможен из текущего состояния
func NewInvalidTransition(domain, message string) *AppError {
	return &AppError{
		Code:     CodeInvalidTransition,
		Domain:   domain,
		Message:  message,
		HTTPCode: http.StatusConflict,
	}
}

func NewInternal(domain, message string, err error) *AppError {
	return &AppError{
		Code:     CodeInternal,
		Domain:   domain,
		Message:  message,
		Err:      err,
		HTTPCode: http.StatusInternalServerError,
	}
}
