package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"workhub_backend/database"
	"workhub_backend/internal/app"
	"workhub_backend/internal/config"
	"workhub_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestServer поднимает приложение поверх httptest с реальной тестовой БД.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
}

// NewTestServer создает тестовый сервер. Тест пропускается, если
// TEST_DATABASE_URL не задан.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}

	gin.SetMode(gin.TestMode)
	logger.Init("test")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	cfg.Env = "test"
	cfg.Database.URL = dsn
	cfg.SMTP.Host = ""
	cfg.Storage.Driver = "local"
	cfg.Storage.LocalDir = t.TempDir()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("не удалось подключиться к тестовой БД (%s): %v", dsn, err)
	}

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate для тестовой БД: %v", err)
	}

	router := app.SetupRouter(cfg, db)
	server := httptest.NewServer(router)

	ts := &TestServer{
		Server: server,
		DB:     db,
	}
	ts.ClearTables(t)

	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// ClearTables очищает все таблицы приложения.
func (ts *TestServer) ClearTables(t *testing.T) {
	t.Helper()

	err := ts.DB.Exec(`TRUNCATE TABLE
		users, refresh_tokens, jobs, applications,
		conversations, messages, reviews, payouts,
		notifications, uploads
		RESTART IDENTITY CASCADE`).Error
	if err != nil {
		t.Fatalf("не удалось очистить таблицы: %v", err)
	}
}

// SendRequest выполняет HTTP-запрос к тестовому серверу и возвращает
// ответ вместе с телом.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	url := ts.Server.URL + path

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("ошибка отправки HTTP-запроса: %v", err)
	}
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("ошибка чтения тела ответа: %v", err)
	}

	return res, string(resBodyBytes)
}
