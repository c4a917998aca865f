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

// ActivityRepository handles read-only access to discovery-feed activities
type ActivityRepository struct {
	db *pgxpool.Pool
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List retrieves all activities, newest first
func (r *ActivityRepository) List(ctx context.Context) ([]*models.Activity, error) {
	query := `
		SELECT id, title, attrs, created_at
		FROM activities
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*models.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}

// GetByID retrieves an activity by ID
func (r *ActivityRepository) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	query := `
		SELECT id, title, attrs, created_at
		FROM activities
		WHERE id = $1
	`
	activity, err := scanActivity(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("activity: %w", errdefs.ErrNotFound)
		}
		return nil, err
	}
	return activity, nil
}

func scanActivity(row pgx.Row) (*models.Activity, error) {
	var activity models.Activity
	var attrs []byte
	err := row.Scan(&activity.ID, &activity.Title, &attrs, &activity.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan activity: %w", err)
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &activity.Attrs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal attrs: %w", err)
		}
	}
	return &activity, nil
}
