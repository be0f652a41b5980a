package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"anoa.com/learnify/internal/logger"
	"anoa.com/learnify/pkg/apperror"
)

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

type fakeStorage struct {
	uploaded []byte
	deleted  string
	err      error
}

func (f *fakeStorage) UploadImage(ctx context.Context, r io.Reader, fileName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploaded, _ = io.ReadAll(r)
	return "https://res.cloudinary.com/demo/image/upload/v1/learnify/" + fileName, nil
}

func (f *fakeStorage) DeleteImage(ctx context.Context, url string) error {
	f.deleted = url
	return f.err
}

// fileHeader builds a multipart.FileHeader the way gin receives one.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(MaxImageSize * 2); err != nil {
		t.Fatal(err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestUploadImage(t *testing.T) {
	store := &fakeStorage{}
	svc := NewUploadService(store, logger.Nop())

	res, err := svc.UploadImage(context.Background(), fileHeader(t, "pixel.png", pngBytes))
	if err != nil {
		t.Fatal(err)
	}
	if res.ContentType != "image/png" || res.URL == "" || res.Size != int64(len(pngBytes)) {
		t.Errorf("unexpected response %+v", res)
	}
	if !bytes.Equal(store.uploaded, pngBytes) {
		t.Error("storage did not receive the full file")
	}
}

func TestUploadImageRejections(t *testing.T) {
	svc := NewUploadService(&fakeStorage{}, logger.Nop())

	_, err := svc.UploadImage(context.Background(), fileHeader(t, "notes.txt", []byte("plain text")))
	if apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for text file, got %v", err)
	}

	big := append(append([]byte{}, pngBytes...), make([]byte, MaxImageSize)...)
	_, err = svc.UploadImage(context.Background(), fileHeader(t, "big.png", big))
	if apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for oversized file, got %v", err)
	}
}

func TestUploadWithoutStorage(t *testing.T) {
	svc := NewUploadService(nil, logger.Nop())
	_, err := svc.UploadImage(context.Background(), fileHeader(t, "pixel.png", pngBytes))
	if apperror.MapErrorToStatus(err) != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", err)
	}
	if err := svc.DeleteImage(context.Background(), "https://res.cloudinary.com/x/image/upload/a.png"); apperror.MapErrorToStatus(err) != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %v", err)
	}
}

func TestDeleteImage(t *testing.T) {
	store := &fakeStorage{}
	svc := NewUploadService(store, logger.Nop())
	url := "https://res.cloudinary.com/demo/image/upload/v12/learnify/pixel.webp"

	if err := svc.DeleteImage(context.Background(), url); err != nil {
		t.Fatal(err)
	}
	if store.deleted != url {
		t.Errorf("expected %s deleted, got %s", url, store.deleted)
	}

	if err := svc.DeleteImage(context.Background(), "https://example.com/a.png"); apperror.MapErrorToStatus(err) != http.StatusBadRequest {
		t.Errorf("expected 400 for foreign URL, got %v", err)
	}

	store.err = errors.New("cloudinary down")
	if err := svc.DeleteImage(context.Background(), url); apperror.MapErrorToStatus(err) != http.StatusInternalServerError {
		t.Errorf("expected 500, got %v", err)
	}
}
