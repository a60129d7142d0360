package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"workhub_backend/internal/models"

	"github.com/stretchr/testify/require"
)

const TestPassword = "password123"

// AuthUser — учетные данные, полученные через /auth/register.
type AuthUser struct {
	ID    uint
	Email string
	Token string
}

// RegisterUser регистрирует пользователя через API и возвращает его токен.
func RegisterUser(t *testing.T, ts *TestServer, name string, role models.UserRole) *AuthUser {
	t.Helper()

	email := fmt.Sprintf("%s_%d@test.local", role, time.Now().UnixNano())
	body := map[string]interface{}{
		"email":    email,
		"password": TestPassword,
		"name":     name,
		"role":     string(role),
	}

	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, res.StatusCode, "регистрация должна пройти, ответ: %s", resBody)

	var parsed struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal([]byte(resBody), &parsed))
	require.NotEmpty(t, parsed.AccessToken)
	require.NotZero(t, parsed.User.ID)

	return &AuthUser{
		ID:    parsed.User.ID,
		Email: email,
		Token: parsed.AccessToken,
	}
}

// CreateJobViaAPI создает работу от имени клиента и возвращает ее ID.
func CreateJobViaAPI(t *testing.T, ts *TestServer, client *AuthUser, title string) uint {
	t.Helper()

	body := map[string]interface{}{
		"title":   title,
		"body":    "test job body",
		"address": "проспект Абая 10",
		"city":    "Almaty",
		"tags":    []string{"cleaning"},
	}

	res, resBody := ts.SendRequest(t, http.MethodPost, "/api/v1/jobs/create", client.Token, body)
	require.Equal(t, http.StatusCreated, res.StatusCode, "создание работы должно пройти, ответ: %s", resBody)

	var parsed struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(resBody), &parsed))
	require.NotZero(t, parsed.ID)

	return parsed.ID
}

// ApplyToJob подает отклик исполнителя на работу.
func ApplyToJob(t *testing.T, ts *TestServer, worker *AuthUser, jobID uint) {
	t.Helper()

	path := fmt.Sprintf("/api/v1/jobs/%d/apply", jobID)
	res, resBody := ts.SendRequest(t, http.MethodPost, path, worker.Token, nil)
	require.Equal(t, http.StatusCreated, res.StatusCode, "отклик должен пройти, ответ: %s", resBody)
}

// AssignWorker назначает исполнителя на работу от имени клиента.
func AssignWorker(t *testing.T, ts *TestServer, client *AuthUser, jobID, workerID uint) {
	t.Helper()

	path := fmt.Sprintf("/api/v1/jobs/%d/assign", jobID)
	res, resBody := ts.SendRequest(t, http.MethodPost, path, client.Token, map[string]interface{}{
		"worker_id": workerID,
	})
	require.Equal(t, http.StatusOK, res.StatusCode, "назначение должно пройти, ответ: %s", resBody)
}
