package validator

import (
	"log"

	"workhub_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Если правило не удалось зарегистрировать, приложение
			// не должно запускаться.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// 'is-user-role': роль пользователя принадлежит закрытому набору
	mustRegister("is-user-role", validateUserRole)

	// 'is-job-status': статус работы принадлежит закрытому набору
	mustRegister("is-job-status", validateJobStatus)

	// 'is-stars': дробный рейтинг в диапазоне [1, 5]
	mustRegister("is-stars", validateStars)
}

// --- Функции валидации ---

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // 'required' обрабатывает пустые
	}
	switch models.UserRole(value) {
	case models.UserRoleWorker, models.UserRoleClient, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidJobStatus(models.JobStatus(value))
}

func validateStars(fl validator.FieldLevel) bool {
	value := fl.Field().Float()
	return value >= 1 && value <= 5
}
