package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookingRepository handles database operations for per-pair booking records.
// Each (tutor_id, tutee_id) pair addresses at most one row holding the
// interval collection.
type BookingRepository struct {
	db *pgxpool.Pool
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// GetByPair retrieves the booking record for a tutor/tutee pair
func (r *BookingRepository) GetByPair(ctx context.Context, tutorID, tuteeID string) (*models.Booking, error) {
	query := `
		SELECT tutor_id, tutee_id, intervals, version, updated_at
		FROM bookings
		WHERE tutor_id = $1 AND tutee_id = $2
	`
	var booking models.Booking
	var intervals []byte
	err := r.db.QueryRow(ctx, query, tutorID, tuteeID).Scan(
		&booking.TutorID, &booking.TuteeID, &intervals, &booking.Version, &booking.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("booking record: %w", errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking record: %w", err)
	}
	if len(intervals) > 0 {
		if err := json.Unmarshal(intervals, &booking.Intervals); err != nil {
			return nil, fmt.Errorf("failed to unmarshal intervals: %w", err)
		}
	}
	return &booking, nil
}

// Insert creates the booking record for a pair that has none yet.
// Returns ErrConflict if another writer created the row first.
func (r *BookingRepository) Insert(ctx context.Context, booking *models.Booking) error {
	intervals, err := json.Marshal(booking.Intervals)
	if err != nil {
		return fmt.Errorf("failed to marshal intervals: %w", err)
	}

	query := `
		INSERT INTO bookings (tutor_id, tutee_id, intervals, version, updated_at)
		VALUES ($1, $2, $3, 1, $4)
	`
	_, err = r.db.Exec(ctx, query, booking.TutorID, booking.TuteeID, intervals, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("booking record already exists: %w", errdefs.ErrConflict)
		}
		return fmt.Errorf("failed to insert booking record: %w", err)
	}
	return nil
}

// UpdateIntervals replaces the interval collection, guarded by the version
// token read alongside it. Returns ErrConflict when the row changed since
// the read, so the caller can reload and retry the append.
func (r *BookingRepository) UpdateIntervals(ctx context.Context, tutorID, tuteeID string, intervals []models.BookingInterval, expectedVersion int64) error {
	data, err := json.Marshal(intervals)
	if err != nil {
		return fmt.Errorf("failed to marshal intervals: %w", err)
	}

	query := `
		UPDATE bookings
		SET intervals = $1, version = version + 1, updated_at = $2
		WHERE tutor_id = $3 AND tutee_id = $4 AND version = $5
	`
	result, err := r.db.Exec(ctx, query, data, time.Now(), tutorID, tuteeID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update intervals: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking record version changed: %w", errdefs.ErrConflict)
	}
	return nil
}
