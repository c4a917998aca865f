package repository

import (
	"context"
	"errors"
	"fmt"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FileRepository handles database operations for shared-file metadata.
// The shared_files table is append-only; records are never mutated.
type FileRepository struct {
	db *pgxpool.Pool
}

// NewFileRepository creates a new file repository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{db: db}
}

// Create records the metadata for a completed upload
func (r *FileRepository) Create(ctx context.Context, file *models.SharedFile) error {
	query := `
		INSERT INTO shared_files (id, file_url, uploaded_by, shared_with, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		file.ID, file.FileURL, file.UploadedBy, file.SharedWith, file.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create shared file record: %w", err)
	}
	return nil
}

// GetByID retrieves a shared file record by ID
func (r *FileRepository) GetByID(ctx context.Context, id string) (*models.SharedFile, error) {
	query := `
		SELECT id, file_url, uploaded_by, shared_with, uploaded_at
		FROM shared_files
		WHERE id = $1
	`
	var file models.SharedFile
	err := r.db.QueryRow(ctx, query, id).Scan(
		&file.ID, &file.FileURL, &file.UploadedBy, &file.SharedWith, &file.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("shared file: %w", errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get shared file: %w", err)
	}
	return &file, nil
}

// ListForPair retrieves the files exchanged between two users, in either
// direction, newest first
func (r *FileRepository) ListForPair(ctx context.Context, userID, counterpartID string, limit int) ([]*models.SharedFile, error) {
	query := `
		SELECT id, file_url, uploaded_by, shared_with, uploaded_at
		FROM shared_files
		WHERE (uploaded_by = $1 AND shared_with = $2)
		   OR (uploaded_by = $2 AND shared_with = $1)
		ORDER BY uploaded_at DESC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, userID, counterpartID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared files for pair: %w", err)
	}
	defer rows.Close()

	var files []*models.SharedFile
	for rows.Next() {
		var file models.SharedFile
		err := rows.Scan(
			&file.ID, &file.FileURL, &file.UploadedBy, &file.SharedWith, &file.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shared file: %w", err)
		}
		files = append(files, &file)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shared files: %w", err)
	}

	return files, nil
}

// ListForUser retrieves files shared with or uploaded by a user, newest first
func (r *FileRepository) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*models.SharedFile, int, error) {
	countQuery := `SELECT COUNT(*) FROM shared_files WHERE shared_with = $1 OR uploaded_by = $1`
	var total int
	if err := r.db.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count shared files: %w", err)
	}

	query := `
		SELECT id, file_url, uploaded_by, shared_with, uploaded_at
		FROM shared_files
		WHERE shared_with = $1 OR uploaded_by = $1
		ORDER BY uploaded_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shared files: %w", err)
	}
	defer rows.Close()

	var files []*models.SharedFile
	for rows.Next() {
		var file models.SharedFile
		err := rows.Scan(
			&file.ID, &file.FileURL, &file.UploadedBy, &file.SharedWith, &file.UploadedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan shared file: %w", err)
		}
		files = append(files, &file)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating shared files: %w", err)
	}

	return files, total, nil
}
