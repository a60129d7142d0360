package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"workhub_backend/internal/auth"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// IdentityMiddleware — "мягкая" аутентификация: валидный Bearer токен
// прикрепляет identity к запросу, отсутствующий или битый токен молча
// игнорируется, запрос идет дальше анонимным. Решение о допустимости
// анонимности принимают guard'ы на маршрутах.
func IdentityMiddleware(tm *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := tm.ParseToken(tokenStr)
		if err != nil {
			// Невалидный токен не прерывает запрос
			c.Next()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)

		ctx := logger.WithUserID(c.Request.Context(), strconv.FormatUint(uint64(claims.UserID), 10))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth пропускает только запросы с прикрепленной identity
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUserIDKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireRoles ограничивает маршрут перечисленными ролями
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool)
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		roleVal, exists := c.Get(ContextRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		role, ok := roleVal.(models.UserRole)
		if !ok {
			roleStr, isString := roleVal.(string)
			if !isString {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied: invalid role"})
				return
			}
			role = models.UserRole(roleStr)
		}

		if !roleSet[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied: insufficient role"})
			return
		}

		c.Next()
	}
}

// GetUserID извлекает ID пользователя из контекста; 0 — аноним
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0
	}
	id, ok := userID.(uint)
	if !ok {
		return 0
	}
	return id
}

// GetRole извлекает роль из контекста
func GetRole(c *gin.Context) models.UserRole {
	roleVal, exists := c.Get(ContextRoleKey)
	if !exists {
		return ""
	}
	role, ok := roleVal.(models.UserRole)
	if !ok {
		return ""
	}
	return role
}
