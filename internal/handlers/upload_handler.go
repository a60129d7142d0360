package handlers

import (
	"time"

	"workhub_backend/internal/middleware"
	"workhub_backend/internal/services"
	"workhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	uploads := r.Group("/uploads")
	uploads.Use(middleware.RequireAuth())
	{
		uploads.POST("", h.Upload)
		uploads.GET("/:id", h.GetUpload)
		uploads.GET("/:id/url", h.GetSignedURL)
		uploads.DELETE("/:id", h.DeleteUpload)
	}
}

// Upload принимает multipart-поле "file".
func (h *UploadHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequest(apperrors.DomainUpload, "multipart field 'file' is required").WithError(err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, apperrors.NewInternal(apperrors.DomainUpload, "failed to read uploaded file", err))
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")

	upload, err := h.uploadService.Upload(c.Request.Context(), userID, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondCreated(c, upload)
}

func (h *UploadHandler) GetUpload(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	upload, err := h.uploadService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, upload)
}

// GetSignedURL выдает временную ссылку на файл.
func (h *UploadHandler) GetSignedURL(c *gin.Context) {
	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	upload, err := h.uploadService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	url, err := h.uploadService.SignedURL(c.Request.Context(), upload.Key, 15*time.Minute)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"url": url, "expires_in": int((15 * time.Minute).Seconds())})
}

func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.uploadService.Delete(c.Request.Context(), userID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "upload deleted"})
}
