package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TutorRepository handles database operations for tutors
type TutorRepository struct {
	db *pgxpool.Pool
}

// NewTutorRepository creates a new tutor repository
func NewTutorRepository(db *pgxpool.Pool) *TutorRepository {
	return &TutorRepository{db: db}
}

// Create creates a new tutor
func (r *TutorRepository) Create(ctx context.Context, tutor *models.Tutor) error {
	tutees, err := json.Marshal(tutor.Tutees)
	if err != nil {
		return fmt.Errorf("failed to marshal tutees: %w", err)
	}

	query := `
		INSERT INTO tutors (id, name, email, phone, website, photo_url, push_token, is_onboarded, tutees, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = r.db.Exec(ctx, query,
		tutor.ID, tutor.Name, tutor.Email, tutor.Phone, tutor.Website,
		tutor.PhotoURL, tutor.PushToken, tutor.IsOnboarded, tutees, tutor.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create tutor: %w", err)
	}
	return nil
}

// GetByID retrieves a tutor by ID
func (r *TutorRepository) GetByID(ctx context.Context, id string) (*models.Tutor, error) {
	query := `
		SELECT id, name, email, phone, website, photo_url, push_token, is_onboarded, tutees, created_at
		FROM tutors
		WHERE id = $1
	`
	var tutor models.Tutor
	var tutees []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tutor.ID, &tutor.Name, &tutor.Email, &tutor.Phone, &tutor.Website,
		&tutor.PhotoURL, &tutor.PushToken, &tutor.IsOnboarded, &tutees, &tutor.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("tutor: %w", errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}
	if len(tutees) > 0 {
		if err := json.Unmarshal(tutees, &tutor.Tutees); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tutees: %w", err)
		}
	}
	return &tutor, nil
}

// UpdateOnboarding sets the onboarding fields on a tutor
func (r *TutorRepository) UpdateOnboarding(ctx context.Context, tutorID string, photoURL, website *string, onboarded bool) error {
	query := `
		UPDATE tutors
		SET photo_url = COALESCE($1, photo_url),
		    website = COALESCE($2, website),
		    is_onboarded = $3
		WHERE id = $4
	`
	result, err := r.db.Exec(ctx, query, photoURL, website, onboarded, tutorID)
	if err != nil {
		return fmt.Errorf("failed to update onboarding: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tutor: %w", errdefs.ErrNotFound)
	}
	return nil
}

// UpdatePushToken updates the push token for a tutor
func (r *TutorRepository) UpdatePushToken(ctx context.Context, tutorID string, pushToken *string) error {
	query := `UPDATE tutors SET push_token = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, pushToken, tutorID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tutor: %w", errdefs.ErrNotFound)
	}
	return nil
}

// UpdateTutees replaces the tutor's tutee list
func (r *TutorRepository) UpdateTutees(ctx context.Context, tutorID string, tutees []models.TuteeSummary) error {
	data, err := json.Marshal(tutees)
	if err != nil {
		return fmt.Errorf("failed to marshal tutees: %w", err)
	}

	query := `UPDATE tutors SET tutees = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, data, tutorID)
	if err != nil {
		return fmt.Errorf("failed to update tutees: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("tutor: %w", errdefs.ErrNotFound)
	}
	return nil
}
