package services

import (
	"context"
	"fmt"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/models"
)

// TutorStore is the persistence contract for tutors
type TutorStore interface {
	Create(ctx context.Context, tutor *models.Tutor) error
	GetByID(ctx context.Context, id string) (*models.Tutor, error)
	UpdateOnboarding(ctx context.Context, tutorID string, photoURL, website *string, onboarded bool) error
	UpdateTutees(ctx context.Context, tutorID string, tutees []models.TuteeSummary) error
	UpdatePushToken(ctx context.Context, tutorID string, pushToken *string) error
}

// TutorService handles tutor onboarding and tutee linking
type TutorService struct {
	tutorRepo TutorStore
	userRepo  UserStore
}

// NewTutorService creates a new tutor service
func NewTutorService(tutorRepo TutorStore, userRepo UserStore) *TutorService {
	return &TutorService{
		tutorRepo: tutorRepo,
		userRepo:  userRepo,
	}
}

// GetByID retrieves a tutor by ID
func (s *TutorService) GetByID(ctx context.Context, id string) (*models.Tutor, error) {
	return s.tutorRepo.GetByID(ctx, id)
}

// CompleteOnboarding records the tutor's profile-setup fields and marks
// the tutor as onboarded
func (s *TutorService) CompleteOnboarding(ctx context.Context, tutorID string, photoURL, website *string) error {
	if err := s.tutorRepo.UpdateOnboarding(ctx, tutorID, photoURL, website, true); err != nil {
		return fmt.Errorf("failed to complete onboarding: %w", err)
	}
	return nil
}

// LinkTutee looks up a tutee by email and links them to the tutor, with a
// matching tutor reference on the tutee side. Linking the same tutee twice
// is rejected.
func (s *TutorService) LinkTutee(ctx context.Context, tutorID, email, subject string) (*models.TuteeSummary, error) {
	if email == "" {
		return nil, fmt.Errorf("tutee email is required: %w", errdefs.ErrValidation)
	}

	tutor, err := s.tutorRepo.GetByID(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tutor: %w", err)
	}

	tutee, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to find tutee by email: %w", err)
	}

	for _, existing := range tutor.Tutees {
		if existing.UserID == tutee.ID {
			return nil, fmt.Errorf("tutee already linked: %w", errdefs.ErrConflict)
		}
	}

	summary := models.TuteeSummary{
		UserID:   tutee.ID,
		Name:     tutee.Name,
		Email:    tutee.Email,
		PhotoURL: tutee.PhotoURL,
		Subject:  subject,
	}
	if err := s.tutorRepo.UpdateTutees(ctx, tutorID, append(tutor.Tutees, summary)); err != nil {
		return nil, fmt.Errorf("failed to link tutee: %w", err)
	}

	myTutors := append(tutee.MyTutors, models.TutorRef{
		TutorID: tutor.ID,
		Name:    tutor.Name,
		Subject: subject,
	})
	if err := s.userRepo.UpdateMyTutors(ctx, tutee.ID, myTutors); err != nil {
		return nil, fmt.Errorf("failed to update tutee's tutor list: %w", err)
	}

	return &summary, nil
}

// ContactActions reports which contact affordances a tutor profile can
// offer; absent fields gate the corresponding action
type ContactActions struct {
	CanCall         bool `json:"can_call"`
	CanEmail        bool `json:"can_email"`
	CanVisitWebsite bool `json:"can_visit_website"`
}

// ContactActionsFor derives the contact affordances from a tutor record
func ContactActionsFor(tutor *models.Tutor) ContactActions {
	return ContactActions{
		CanCall:         tutor.Phone != nil && *tutor.Phone != "",
		CanEmail:        tutor.Email != "",
		CanVisitWebsite: tutor.Website != nil && *tutor.Website != "",
	}
}
