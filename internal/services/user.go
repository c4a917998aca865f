package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const jwtExpDays = 365

// UserStore is the persistence contract for tutee users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateMyTutors(ctx context.Context, userID string, tutors []models.TutorRef) error
	UpdatePushToken(ctx context.Context, userID string, pushToken *string) error
}

// UserService handles sign-up record creation and token auth
type UserService struct {
	userRepo  UserStore
	tutorRepo TutorStore
	jwtSecret string
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore, tutorRepo TutorStore, jwtSecret string) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tutorRepo: tutorRepo,
		jwtSecret: jwtSecret,
	}
}

// SignUpResult is returned after a sign-up record is created
type SignUpResult struct {
	ID    string      `json:"id"`
	Role  models.Role `json:"role"`
	Token string      `json:"token"`
}

// SignUp creates the identity record for a new user. Tutors get a tutor
// record with the onboarding flag unset; everyone else gets a tutee record.
func (s *UserService) SignUp(ctx context.Context, name, email string, role models.Role) (*SignUpResult, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email are required: %w", errdefs.ErrValidation)
	}
	if role != models.RoleTutor && role != models.RoleTutee {
		return nil, fmt.Errorf("unknown role %q: %w", role, errdefs.ErrValidation)
	}

	id := uuid.New().String()
	now := time.Now()

	if role == models.RoleTutor {
		tutor := &models.Tutor{
			ID:          id,
			Name:        name,
			Email:       email,
			IsOnboarded: false,
			CreatedAt:   now,
		}
		if err := s.tutorRepo.Create(ctx, tutor); err != nil {
			return nil, fmt.Errorf("failed to create tutor: %w", err)
		}
	} else {
		user := &models.User{
			ID:        id,
			Name:      name,
			Email:     email,
			CreatedAt: now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	token, err := s.GenerateJWT(id)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &SignUpResult{ID: id, Role: role, Token: token}, nil
}

// GetByID retrieves a tutee user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// SetPushToken stores or clears the caller's device push token. The ID can
// belong to either record type, so a miss on the users side falls through
// to the tutors side.
func (s *UserService) SetPushToken(ctx context.Context, userID string, pushToken *string) error {
	err := s.userRepo.UpdatePushToken(ctx, userID, pushToken)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errdefs.ErrNotFound) {
		return err
	}
	return s.tutorRepo.UpdatePushToken(ctx, userID, pushToken)
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}
