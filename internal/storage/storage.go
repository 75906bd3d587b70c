// Package storage provides evidence file storage backed by Cloudinary.
package storage

import (
	"context"
	"errors"
	"mime/multipart"
)

// Validation and upload errors surfaced to callers.
var (
	ErrFileTooLarge       = errors.New("file size exceeds limit")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrUploadFailed       = errors.New("failed to upload file")
	ErrDeleteFailed       = errors.New("failed to delete file")
)

// UploadResult describes a stored evidence file.
type UploadResult struct {
	Key      string // provider public ID, persisted as Evidence.StorageKey
	URL      string
	Format   string
	Size     int64
}

// EvidenceStorage stores and removes evidence files.
type EvidenceStorage interface {
	Validate(file *multipart.FileHeader) error
	Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
}
