package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func strPtr(s string) *string { return &s }

func TestLinkTutee_Success(t *testing.T) {
	mockTutors := new(MockTutorStore)
	mockUsers := new(MockUserStore)
	svc := NewTutorService(mockTutors, mockUsers)

	tutor := &models.Tutor{ID: "tutor-1", Name: "Ada", Email: "ada@example.com"}
	tutee := &models.User{ID: "tutee-1", Name: "Ben", Email: "ben@example.com"}

	mockTutors.On("GetByID", mock.Anything, "tutor-1").Return(tutor, nil)
	mockUsers.On("GetByEmail", mock.Anything, "ben@example.com").Return(tutee, nil)

	mockTutors.On("UpdateTutees", mock.Anything, "tutor-1", mock.Anything).
		Run(func(args mock.Arguments) {
			tutees := args.Get(2).([]models.TuteeSummary)
			assert.Len(t, tutees, 1)
			assert.Equal(t, "tutee-1", tutees[0].UserID)
			assert.Equal(t, "maths", tutees[0].Subject)
		}).
		Return(nil).Once()
	mockUsers.On("UpdateMyTutors", mock.Anything, "tutee-1", mock.Anything).
		Run(func(args mock.Arguments) {
			refs := args.Get(2).([]models.TutorRef)
			assert.Len(t, refs, 1)
			assert.Equal(t, "tutor-1", refs[0].TutorID)
			assert.Equal(t, "maths", refs[0].Subject)
		}).
		Return(nil).Once()

	summary, err := svc.LinkTutee(context.Background(), "tutor-1", "ben@example.com", "maths")

	assert.NoError(t, err)
	assert.Equal(t, "Ben", summary.Name)
	mockTutors.AssertExpectations(t)
	mockUsers.AssertExpectations(t)
}

func TestLinkTutee_AlreadyLinked(t *testing.T) {
	mockTutors := new(MockTutorStore)
	mockUsers := new(MockUserStore)
	svc := NewTutorService(mockTutors, mockUsers)

	tutor := &models.Tutor{
		ID: "tutor-1",
		Tutees: []models.TuteeSummary{
			{UserID: "tutee-1", Name: "Ben"},
		},
	}
	mockTutors.On("GetByID", mock.Anything, "tutor-1").Return(tutor, nil)
	mockUsers.On("GetByEmail", mock.Anything, "ben@example.com").
		Return(&models.User{ID: "tutee-1", Name: "Ben", Email: "ben@example.com"}, nil)

	summary, err := svc.LinkTutee(context.Background(), "tutor-1", "ben@example.com", "maths")

	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, errdefs.ErrConflict))
	mockTutors.AssertNotCalled(t, "UpdateTutees", mock.Anything, mock.Anything, mock.Anything)
}

func TestLinkTutee_UnknownEmail(t *testing.T) {
	mockTutors := new(MockTutorStore)
	mockUsers := new(MockUserStore)
	svc := NewTutorService(mockTutors, mockUsers)

	mockTutors.On("GetByID", mock.Anything, "tutor-1").Return(&models.Tutor{ID: "tutor-1"}, nil)
	mockUsers.On("GetByEmail", mock.Anything, "ghost@example.com").
		Return(nil, fmt.Errorf("user: %w", errdefs.ErrNotFound))

	summary, err := svc.LinkTutee(context.Background(), "tutor-1", "ghost@example.com", "maths")

	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, errdefs.ErrNotFound))
}

func TestLinkTutee_EmptyEmail(t *testing.T) {
	svc := NewTutorService(new(MockTutorStore), new(MockUserStore))

	summary, err := svc.LinkTutee(context.Background(), "tutor-1", "", "maths")

	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, errdefs.ErrValidation))
}

func TestCompleteOnboarding(t *testing.T) {
	mockTutors := new(MockTutorStore)
	svc := NewTutorService(mockTutors, new(MockUserStore))

	photo := strPtr("https://cdn.example.com/p.jpg")
	site := strPtr("https://ada.example.com")
	mockTutors.On("UpdateOnboarding", mock.Anything, "tutor-1", photo, site, true).
		Return(nil).Once()

	err := svc.CompleteOnboarding(context.Background(), "tutor-1", photo, site)

	assert.NoError(t, err)
	mockTutors.AssertExpectations(t)
}

func TestContactActionsFor_GatesOnPresence(t *testing.T) {
	full := &models.Tutor{
		Email:   "ada@example.com",
		Phone:   strPtr("+4912345"),
		Website: strPtr("https://ada.example.com"),
	}
	actions := ContactActionsFor(full)
	assert.True(t, actions.CanCall)
	assert.True(t, actions.CanEmail)
	assert.True(t, actions.CanVisitWebsite)

	sparse := &models.Tutor{Email: "ada@example.com", Phone: strPtr("")}
	actions = ContactActionsFor(sparse)
	assert.False(t, actions.CanCall)
	assert.True(t, actions.CanEmail)
	assert.False(t, actions.CanVisitWebsite)
}
