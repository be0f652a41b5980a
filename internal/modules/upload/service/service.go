package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"anoa.com/learnify/internal/logger"
	"anoa.com/learnify/internal/modules/upload/dto"
	"anoa.com/learnify/pkg/apperror"
	"anoa.com/learnify/pkg/storage"
)

// MaxImageSize bounds a single upload.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type UploadService interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error)
	DeleteImage(ctx context.Context, url string) error
}

type uploadService struct {
	storage storage.ImageStorage
	log     logger.Logger
}

// NewUploadService accepts a nil storage; every call then reports 503.
func NewUploadService(imageStorage storage.ImageStorage, log logger.Logger) UploadService {
	return &uploadService{
		storage: imageStorage,
		log:     log.With(map[string]interface{}{"module": "upload"}),
	}
}

func (s *uploadService) UploadImage(ctx context.Context, file *multipart.FileHeader) (*dto.UploadResponse, error) {
	if s.storage == nil {
		return nil, notConfigured()
	}

	if file.Size > MaxImageSize {
		return nil, apperror.BadRequest("Image must be 5MB or smaller")
	}

	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	// Sniff rather than trust the client header.
	head := make([]byte, 512)
	n, _ := f.Read(head)
	contentType := http.DetectContentType(head[:n])
	if !allowedImageTypes[contentType] {
		return nil, apperror.BadRequest("Only JPEG, PNG, GIF and WebP images are allowed")
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	url, err := s.storage.UploadImage(ctx, f, file.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	s.log.With(map[string]interface{}{"url": url, "size": file.Size}).Info("Image uploaded")

	return &dto.UploadResponse{
		URL:         url,
		FileName:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
	}, nil
}

func (s *uploadService) DeleteImage(ctx context.Context, url string) error {
	if s.storage == nil {
		return notConfigured()
	}
	if storage.PublicID(url) == "" {
		return apperror.BadRequest("Not an uploaded image URL")
	}
	if err := s.storage.DeleteImage(ctx, strings.TrimSpace(url)); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

func notConfigured() error {
	return apperror.New(http.StatusServiceUnavailable, "Image uploads are not configured", apperror.ErrServiceUnavailable)
}
