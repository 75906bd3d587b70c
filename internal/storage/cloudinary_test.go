package storage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/LionStoreTeam/ecometrics/internal/config"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

// pngHeader is the PNG magic followed by padding, enough for MIME sniffing.
var pngHeader = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func newTestStorage(t *testing.T, maxSize int64) *CloudinaryStorage {
	t.Helper()

	cfg := &config.StorageConfig{
		CloudName:    "test",
		APIKey:       "key",
		APISecret:    "secret",
		UploadFolder: "test/evidence",
		MaxFileSize:  maxSize,
	}
	s, err := NewCloudinaryStorage(cfg, logger.New("error", "json"))
	if err != nil {
		t.Fatalf("NewCloudinaryStorage() failed: %v", err)
	}
	return s
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("Failed to write content: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("Failed to read form: %v", err)
	}
	return form.File["file"][0]
}

func TestValidate_AcceptsImages(t *testing.T) {
	s := newTestStorage(t, 10*1024*1024)

	if err := s.Validate(fileHeader(t, "photo.png", pngHeader)); err != nil {
		t.Errorf("Expected PNG to pass validation, got %v", err)
	}
}

func TestValidate_AcceptsPDF(t *testing.T) {
	s := newTestStorage(t, 10*1024*1024)

	pdf := append([]byte("%PDF-1.4\n"), make([]byte, 64)...)
	if err := s.Validate(fileHeader(t, "receipt.pdf", pdf)); err != nil {
		t.Errorf("Expected PDF to pass validation, got %v", err)
	}
}

func TestValidate_RejectsOversizedFile(t *testing.T) {
	s := newTestStorage(t, 16)

	err := s.Validate(fileHeader(t, "big.png", pngHeader))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("Expected ErrFileTooLarge, got %v", err)
	}
}

func TestValidate_RejectsWrongContentType(t *testing.T) {
	s := newTestStorage(t, 10*1024*1024)

	// Extension lies; the sniffed type is what counts
	err := s.Validate(fileHeader(t, "fake.png", []byte("#!/bin/sh\nrm nothing\n")))
	if !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("Expected ErrInvalidContentType, got %v", err)
	}
}
