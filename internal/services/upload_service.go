package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"workhub_backend/internal/imageprocessor"
	"workhub_backend/internal/logger"
	"workhub_backend/internal/models"
	"workhub_backend/internal/repositories"
	"workhub_backend/internal/services/dto"
	"workhub_backend/internal/storage"
	"workhub_backend/pkg/apperrors"

	"github.com/google/uuid"
)

const maxUploadSize = 20 << 20 // 20 MiB

// Разрешенные типы файлов (фото "до"/"после")
var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

type UploadService interface {
	Upload(ctx context.Context, userID uint, fileName, contentType string, size int64, reader io.Reader) (*dto.UploadResponse, error)
	Get(ctx context.Context, id uint) (*dto.UploadResponse, error)
	// SignedURL возвращает временную ссылку на файл по ключу
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, userID, id uint) error
}

type UploadServiceImpl struct {
	uploadRepo repositories.UploadRepository
	store      storage.Storage
	thumbs     *imageprocessor.Processor
}

func NewUploadService(uploadRepo repositories.UploadRepository, store storage.Storage) UploadService {
	return &UploadServiceImpl{
		uploadRepo: uploadRepo,
		store:      store,
		thumbs:     imageprocessor.NewProcessor(0),
	}
}

func (s *UploadServiceImpl) Upload(ctx context.Context, userID uint, fileName, contentType string, size int64, reader io.Reader) (*dto.UploadResponse, error) {
	if size <= 0 || size > maxUploadSize {
		return nil, apperrors.NewBadRequest(apperrors.DomainUpload, "file size must be between 1 byte and 20 MiB")
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return nil, apperrors.NewBadRequest(apperrors.DomainUpload, fmt.Sprintf("unsupported content type: %s", contentType))
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxUploadSize+1))
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainUpload, "failed to read file", err)
	}
	if int64(len(data)) > maxUploadSize {
		return nil, apperrors.NewBadRequest(apperrors.DomainUpload, "file size must be between 1 byte and 20 MiB")
	}

	key := fmt.Sprintf("uploads/%d/%s%s", userID, uuid.NewString(), filepath.Ext(fileName))
	if err := s.store.Save(ctx, key, bytes.NewReader(data), contentType); err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainStorage, "failed to store file", err)
	}

	url, err := s.store.GetURL(ctx, key)
	if err != nil {
		return nil, apperrors.NewInternal(apperrors.DomainStorage, "failed to build file url", err)
	}

	upload := &models.Upload{
		UserID:      userID,
		Key:         key,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		URL:         url,
	}

	// Миниатюра не критична: при ошибке загрузка все равно проходит
	s.attachThumbnail(ctx, upload, data)
	if err := s.uploadRepo.Create(upload); err != nil {
		// Файл уже в хранилище; чистим, чтобы не копить сироты
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.CtxWarn(ctx, "failed to clean up orphaned file", "key", key, "error", delErr.Error())
		}
		return nil, apperrors.NewInternal(apperrors.DomainUpload, "failed to save upload metadata", err)
	}

	logger.CtxInfo(ctx, "file uploaded", "upload_id", upload.ID, "key", key, "size", size)
	resp := dto.FromUpload(upload)
	return &resp, nil
}

func (s *UploadServiceImpl) attachThumbnail(ctx context.Context, upload *models.Upload, data []byte) {
	if !s.thumbs.Supports(upload.ContentType) {
		return
	}

	thumb, err := s.thumbs.Thumbnail(bytes.NewReader(data))
	if err != nil {
		logger.CtxWarn(ctx, "failed to build thumbnail", "key", upload.Key, "error", err.Error())
		return
	}

	dir, name := filepath.Split(upload.Key)
	thumbKey := dir + "thumb_" + name
	if err := s.store.Save(ctx, thumbKey, thumb, upload.ContentType); err != nil {
		logger.CtxWarn(ctx, "failed to store thumbnail", "key", thumbKey, "error", err.Error())
		return
	}

	thumbURL, err := s.store.GetURL(ctx, thumbKey)
	if err != nil {
		logger.CtxWarn(ctx, "failed to build thumbnail url", "key", thumbKey, "error", err.Error())
		return
	}

	upload.ThumbnailKey = thumbKey
	upload.ThumbnailURL = thumbURL
}

func (s *UploadServiceImpl) Get(ctx context.Context, id uint) (*dto.UploadResponse, error) {
	upload, err := s.uploadRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUploadNotFound) {
			return nil, apperrors.NewNotFound(apperrors.DomainUpload, fmt.Sprintf("no upload found with id %d", id))
		}
		return nil, apperrors.NewInternal(apperrors.DomainUpload, "failed to fetch upload", err)
	}
	resp := dto.FromUpload(upload)
	return &resp, nil
}

func (s *UploadServiceImpl) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if _, err := s.uploadRepo.FindByKey(key); err != nil {
		if errors.Is(err, repositories.ErrUploadNotFound) {
			return "", apperrors.NewNotFound(apperrors.DomainUpload, "file not found")
		}
		return "", apperrors.NewInternal(apperrors.DomainUpload, "failed to fetch upload", err)
	}
	url, err := s.store.GetSignedURL(ctx, key, ttl)
	if err != nil {
		return "", apperrors.NewInternal(apperrors.DomainStorage, "failed to sign url", err)
	}
	return url, nil
}

func (s *UploadServiceImpl) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	upload, err := s.uploadRepo.FindByKey(key)
	if err != nil {
		if errors.Is(err, repositories.ErrUploadNotFound) {
			return nil, "", apperrors.NewNotFound(apperrors.DomainUpload, "file not found")
		}
		return nil, "", apperrors.NewInternal(apperrors.DomainUpload, "failed to fetch upload", err)
	}
	reader, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, "", apperrors.NewInternal(apperrors.DomainStorage, "failed to open file", err)
	}
	return reader, upload.ContentType, nil
}

func (s *UploadServiceImpl) Delete(ctx context.Context, userID, id uint) error {
	upload, err := s.uploadRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUploadNotFound) {
			return apperrors.NewNotFound(apperrors.DomainUpload, fmt.Sprintf("no upload found with id %d", id))
		}
		return apperrors.NewInternal(apperrors.DomainUpload, "failed to fetch upload", err)
	}
	if upload.UserID != userID {
		return apperrors.NewForbidden(apperrors.DomainUpload, "not the owner of this file")
	}

	if err := s.store.Delete(ctx, upload.Key); err != nil {
		return apperrors.NewInternal(apperrors.DomainStorage, "failed to delete file", err)
	}
	if upload.ThumbnailKey != "" {
		if err := s.store.Delete(ctx, upload.ThumbnailKey); err != nil {
			logger.CtxWarn(ctx, "failed to delete thumbnail", "key", upload.ThumbnailKey, "error", err.Error())
		}
	}
	return s.uploadRepo.Delete(id)
}
