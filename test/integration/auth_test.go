package integration

import (
	"encoding/json"
	"net/http"
	"testing"

	"workhub_backend/internal/models"
	"workhub_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthFlow(t *testing.T) {
	ts := helpers.NewTestServer(t)
	defer ts.Close()

	user := helpers.RegisterUser(t, ts, "Auth Worker", models.UserRoleWorker)

	t.Run("login returns tokens and user", func(t *testing.T) {
		res, body := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
			"email":    user.Email,
			"password": helpers.TestPassword,
		})
		require.Equal(t, http.StatusOK, res.StatusCode, body)

		var parsed struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
			User         struct {
				ID    uint   `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &parsed))
		assert.NotEmpty(t, parsed.AccessToken)
		assert.NotEmpty(t, parsed.RefreshToken)
		assert.Equal(t, user.ID, parsed.User.ID)
		assert.Equal(t, user.Email, parsed.User.Email)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
			"email":    user.Email,
			"password": "definitely-wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
			"email":    user.Email,
			"password": helpers.TestPassword,
			"name":     "Duplicate",
			"role":     "worker",
		})
		assert.Equal(t, http.StatusConflict, res.StatusCode)
	})

	t.Run("admin cannot be registered publicly", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
			"email":    "sneaky@test.local",
			"password": helpers.TestPassword,
			"name":     "Sneaky",
			"role":     "admin",
		})
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("refresh rotates the token", func(t *testing.T) {
		_, loginBody := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
			"email":    user.Email,
			"password": helpers.TestPassword,
		})
		var login struct {
			RefreshToken string `json:"refresh_token"`
		}
		require.NoError(t, json.Unmarshal([]byte(loginBody), &login))

		res, refreshBody := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
			"refresh_token": login.RefreshToken,
		})
		require.Equal(t, http.StatusOK, res.StatusCode, refreshBody)

		var refreshed struct {
			RefreshToken string `json:"refresh_token"`
		}
		require.NoError(t, json.Unmarshal([]byte(refreshBody), &refreshed))
		assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

		// Старый refresh-токен больше не действует
		res, _ = ts.SendRequest(t, http.MethodPost, "/api/v1/auth/refresh", "", map[string]interface{}{
			"refresh_token": login.RefreshToken,
		})
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("protected route requires a token", func(t *testing.T) {
		res, _ := ts.SendRequest(t, http.MethodGet, "/api/v1/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

		// Мусорный заголовок Authorization не роняет запрос, а просто
		// оставляет его анонимным
		req, err := http.NewRequest(http.MethodGet, ts.Server.URL+"/api/v1/users/me", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		resp, err := ts.Server.Client().Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
