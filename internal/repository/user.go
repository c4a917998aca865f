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

// UserRepository handles database operations for tutee users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	myTutors, err := json.Marshal(user.MyTutors)
	if err != nil {
		return fmt.Errorf("failed to marshal my_tutors: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, photo_url, push_token, my_tutors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PhotoURL, user.PushToken, myTutors, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, name, email, photo_url, push_token, my_tutors, created_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, name, email, photo_url, push_token, my_tutors, created_at
		FROM users
		WHERE email = $1
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	var myTutors []byte
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PhotoURL, &user.PushToken,
		&myTutors, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user: %w", errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(myTutors) > 0 {
		if err := json.Unmarshal(myTutors, &user.MyTutors); err != nil {
			return nil, fmt.Errorf("failed to unmarshal my_tutors: %w", err)
		}
	}
	return &user, nil
}

// UpdateMyTutors replaces the user's tutor list
func (r *UserRepository) UpdateMyTutors(ctx context.Context, userID string, tutors []models.TutorRef) error {
	data, err := json.Marshal(tutors)
	if err != nil {
		return fmt.Errorf("failed to marshal my_tutors: %w", err)
	}

	query := `UPDATE users SET my_tutors = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, data, userID)
	if err != nil {
		return fmt.Errorf("failed to update my_tutors: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user: %w", errdefs.ErrNotFound)
	}
	return nil
}

// UpdatePushToken updates the push token for a user
func (r *UserRepository) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	query := `UPDATE users SET push_token = $1 WHERE id = $2`
	result, err := r.db.Exec(ctx, query, pushToken, userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user: %w", errdefs.ErrNotFound)
	}
	return nil
}
