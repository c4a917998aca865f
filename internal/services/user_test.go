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

func TestSignUp_TuteeCreatesUserRecord(t *testing.T) {
	mockUsers := new(MockUserStore)
	mockTutors := new(MockTutorStore)
	svc := NewUserService(mockUsers, mockTutors, "secret")

	mockUsers.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			user := args.Get(1).(*models.User)
			assert.Equal(t, "Ben", user.Name)
			assert.Equal(t, "ben@example.com", user.Email)
			assert.NotEmpty(t, user.ID)
		}).
		Return(nil).Once()

	result, err := svc.SignUp(context.Background(), "Ben", "ben@example.com", models.RoleTutee)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleTutee, result.Role)
	assert.NotEmpty(t, result.Token)
	mockUsers.AssertExpectations(t)
	mockTutors.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_TutorStartsUnonboarded(t *testing.T) {
	mockUsers := new(MockUserStore)
	mockTutors := new(MockTutorStore)
	svc := NewUserService(mockUsers, mockTutors, "secret")

	mockTutors.On("Create", mock.Anything, mock.AnythingOfType("*models.Tutor")).
		Run(func(args mock.Arguments) {
			tutor := args.Get(1).(*models.Tutor)
			assert.Equal(t, "Ada", tutor.Name)
			assert.False(t, tutor.IsOnboarded)
		}).
		Return(nil).Once()

	result, err := svc.SignUp(context.Background(), "Ada", "ada@example.com", models.RoleTutor)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleTutor, result.Role)
	mockTutors.AssertExpectations(t)
	mockUsers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_Validation(t *testing.T) {
	svc := NewUserService(new(MockUserStore), new(MockTutorStore), "secret")

	_, err := svc.SignUp(context.Background(), "", "ben@example.com", models.RoleTutee)
	assert.True(t, errors.Is(err, errdefs.ErrValidation))

	_, err = svc.SignUp(context.Background(), "Ben", "", models.RoleTutee)
	assert.True(t, errors.Is(err, errdefs.ErrValidation))

	_, err = svc.SignUp(context.Background(), "Ben", "ben@example.com", models.Role("admin"))
	assert.True(t, errors.Is(err, errdefs.ErrValidation))
}

func TestSetPushToken_TuteeWritesUserRecord(t *testing.T) {
	mockUsers := new(MockUserStore)
	mockTutors := new(MockTutorStore)
	svc := NewUserService(mockUsers, mockTutors, "secret")

	token := strPtr("device-token-1")
	mockUsers.On("UpdatePushToken", mock.Anything, "tutee-1", token).Return(nil).Once()

	assert.NoError(t, svc.SetPushToken(context.Background(), "tutee-1", token))
	mockUsers.AssertExpectations(t)
	mockTutors.AssertNotCalled(t, "UpdatePushToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetPushToken_TutorFallsThroughToTutorRecord(t *testing.T) {
	mockUsers := new(MockUserStore)
	mockTutors := new(MockTutorStore)
	svc := NewUserService(mockUsers, mockTutors, "secret")

	token := strPtr("device-token-2")
	mockUsers.On("UpdatePushToken", mock.Anything, "tutor-1", token).
		Return(fmt.Errorf("user: %w", errdefs.ErrNotFound)).Once()
	mockTutors.On("UpdatePushToken", mock.Anything, "tutor-1", token).Return(nil).Once()

	assert.NoError(t, svc.SetPushToken(context.Background(), "tutor-1", token))
	mockUsers.AssertExpectations(t)
	mockTutors.AssertExpectations(t)
}

func TestSetPushToken_UnknownIDNotFound(t *testing.T) {
	mockUsers := new(MockUserStore)
	mockTutors := new(MockTutorStore)
	svc := NewUserService(mockUsers, mockTutors, "secret")

	token := strPtr("device-token-3")
	mockUsers.On("UpdatePushToken", mock.Anything, "ghost", token).
		Return(fmt.Errorf("user: %w", errdefs.ErrNotFound)).Once()
	mockTutors.On("UpdatePushToken", mock.Anything, "ghost", token).
		Return(fmt.Errorf("tutor: %w", errdefs.ErrNotFound)).Once()

	err := svc.SetPushToken(context.Background(), "ghost", token)
	assert.True(t, errors.Is(err, errdefs.ErrNotFound))
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewUserService(new(MockUserStore), new(MockTutorStore), "secret")

	token, err := svc.GenerateJWT("user-1")
	assert.NoError(t, err)

	userID, err := svc.ValidateJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	issuer := NewUserService(new(MockUserStore), new(MockTutorStore), "secret-a")
	verifier := NewUserService(new(MockUserStore), new(MockTutorStore), "secret-b")

	token, err := issuer.GenerateJWT("user-1")
	assert.NoError(t, err)

	_, err = verifier.ValidateJWT(token)
	assert.Error(t, err)
}
