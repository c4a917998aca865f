package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/models"

	"github.com/google/uuid"
)

// MaxFileBytes is the hard ceiling for shared files: 5 MiB. Uploads above
// it are rejected before any byte reaches the blob store.
const MaxFileBytes = 5 * 1024 * 1024

// FileStore is the persistence contract for shared-file metadata
type FileStore interface {
	Create(ctx context.Context, file *models.SharedFile) error
	GetByID(ctx context.Context, id string) (*models.SharedFile, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*models.SharedFile, int, error)
	ListForPair(ctx context.Context, userID, counterpartID string, limit int) ([]*models.SharedFile, error)
}

// BlobStore is the object-storage contract for uploaded file contents
type BlobStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string, progress func(pct float64)) (string, error)
}

// UploadService shares files between a user and a counterpart: it streams
// the blob to object storage and records who shared what with whom.
type UploadService struct {
	files FileStore
	blobs BlobStore
}

// NewUploadService creates a new upload service
func NewUploadService(files FileStore, blobs BlobStore) *UploadService {
	return &UploadService{files: files, blobs: blobs}
}

// UploadInput carries one file-share request
type UploadInput struct {
	UploaderID  string
	RecipientID string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Progress    func(pct float64)
}

// ValidateSize rejects files over the MaxFileBytes ceiling
func (s *UploadService) ValidateSize(size int64) error {
	if size > MaxFileBytes {
		return fmt.Errorf("file is %d bytes, limit is %d: %w", size, int64(MaxFileBytes), errdefs.ErrFileTooLarge)
	}
	return nil
}

// Upload streams the file to the blob store under a key derived from the
// uploader and original filename, then records the share metadata. The
// metadata row is written only after the blob upload completed and yielded
// a durable URL.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (*models.SharedFile, error) {
	if in.Filename == "" {
		return nil, fmt.Errorf("filename is required: %w", errdefs.ErrValidation)
	}
	if in.RecipientID == "" {
		return nil, fmt.Errorf("recipient is required: %w", errdefs.ErrValidation)
	}
	if err := s.ValidateSize(in.Size); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("uploads/%s/%s", in.UploaderID, in.Filename)
	fileURL, err := s.blobs.Upload(ctx, key, in.Body, in.Size, in.ContentType, in.Progress)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	file := &models.SharedFile{
		ID:         uuid.New().String(),
		FileURL:    fileURL,
		UploadedBy: in.UploaderID,
		SharedWith: in.RecipientID,
		UploadedAt: time.Now(),
	}
	if err := s.files.Create(ctx, file); err != nil {
		return nil, fmt.Errorf("failed to record shared file: %w", err)
	}

	return file, nil
}

// GetForUser retrieves one shared-file record; only the uploader and the
// recipient may see it
func (s *UploadService) GetForUser(ctx context.Context, userID, fileID string) (*models.SharedFile, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if file.UploadedBy != userID && file.SharedWith != userID {
		return nil, fmt.Errorf("shared file: %w", errdefs.ErrPermissionDenied)
	}
	return file, nil
}

// ListForPair retrieves the files exchanged between a user and one
// counterpart, in either direction
func (s *UploadService) ListForPair(ctx context.Context, userID, counterpartID string, limit int) ([]*models.SharedFile, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	return s.files.ListForPair(ctx, userID, counterpartID, limit)
}

// ListForUser retrieves files shared with or by a user, with pagination
func (s *UploadService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*models.SharedFile, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.files.ListForUser(ctx, userID, limit, offset)
}
