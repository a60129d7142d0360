package handlers

import (
	"io"
	"net/http"
	"strings"

	"workhub_backend/internal/logger"
	"workhub_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// FileHandler отдает содержимое файлов локального хранилища.
// Для S3-хранилища клиенты получают подписанные ссылки и сюда не ходят.
type FileHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewFileHandler(base *BaseHandler, uploadService services.UploadService) *FileHandler {
	return &FileHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *FileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/files/*path", h.ServeFile)
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("path"), "/")

	rc, contentType, err := h.uploadService.Open(c.Request.Context(), key)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer rc.Close()

	if contentType != "" {
		c.Header("Content-Type", contentType)
	}
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		logger.WithError(err).Warn("file stream interrupted", "key", key)
	}
}
