package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/LionStoreTeam/ecometrics/internal/config"
	"github.com/LionStoreTeam/ecometrics/pkg/logger"
)

// allowedContentTypes lists accepted evidence MIME types: images and PDF.
var allowedContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

const uploadTimeout = 30 * time.Second

// CloudinaryStorage implements EvidenceStorage on Cloudinary.
type CloudinaryStorage struct {
	client *cloudinary.Cloudinary
	cfg    *config.StorageConfig
	log    *logger.Logger
}

// NewCloudinaryStorage creates a Cloudinary-backed evidence store.
func NewCloudinaryStorage(cfg *config.StorageConfig, log *logger.Logger) (*CloudinaryStorage, error) {
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	log.Info().Str("cloud", cfg.CloudName).Str("folder", cfg.UploadFolder).
		Msg("Cloudinary storage initialized")

	return &CloudinaryStorage{
		client: client,
		cfg:    cfg,
		log:    log.Component("storage"),
	}, nil
}

// Validate checks file size and sniffed content type before upload.
func (s *CloudinaryStorage) Validate(file *multipart.FileHeader) error {
	if file.Size > s.cfg.MaxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds %d bytes", ErrFileTooLarge, file.Size, s.cfg.MaxFileSize)
	}

	contentType, err := sniffContentType(file)
	if err != nil {
		return err
	}
	if !allowedContentTypes[contentType] {
		return fmt.Errorf("%w: %s", ErrInvalidContentType, contentType)
	}
	return nil
}

// Upload stores a file under the configured folder, retrying transient
// failures with exponential backoff.
func (s *CloudinaryStorage) Upload(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	params := uploader.UploadParams{
		Folder:         s.cfg.UploadFolder,
		UseFilename:    ptrBool(true),
		UniqueFilename: ptrBool(true),
		ResourceType:   "auto",
	}

	var result *uploader.UploadResult
	operation := func() error {
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			return backoff.Permanent(err)
		}
		var opErr error
		result, opErr = s.client.Upload.Upload(ctx, src, params)
		return opErr
	}

	b := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	err = backoff.RetryNotify(
		operation,
		backoff.WithMaxRetries(b, uint64(s.cfg.UploadRetries)),
		func(err error, d time.Duration) {
			s.log.Warn().Err(err).
				Str("filename", file.Filename).
				Dur("backoff", d).
				Msg("Upload attempt failed")
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.log.Info().
		Str("filename", file.Filename).
		Str("public_id", result.PublicID).
		Int64("size", file.Size).
		Msg("Evidence uploaded")

	return &UploadResult{
		Key:    result.PublicID,
		URL:    result.SecureURL,
		Format: result.Format,
		Size:   int64(result.Bytes),
	}, nil
}

// Delete removes a stored file by its public ID.
func (s *CloudinaryStorage) Delete(ctx context.Context, key string) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: key})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	s.log.Info().Str("key", key).Msg("Evidence deleted from storage")
	return nil
}

// sniffContentType detects the MIME type from the file's first 512 bytes.
func sniffContentType(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	return http.DetectContentType(buffer[:n]), nil
}

func ptrBool(b bool) *bool {
	return &b
}
