package dto

import (
	"time"

	"workhub_backend/internal/models"
)

type UploadResponse struct {
	ID           uint      `json:"id"`
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type,omitempty"`
	Size         int64     `json:"size"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromUpload(u *models.Upload) UploadResponse {
	return UploadResponse{
		ID:           u.ID,
		Key:          u.Key,
		URL:          u.URL,
		FileName:     u.FileName,
		ContentType:  u.ContentType,
		Size:         u.Size,
		ThumbnailURL: u.ThumbnailURL,
		CreatedAt:    u.CreatedAt,
	}
}
