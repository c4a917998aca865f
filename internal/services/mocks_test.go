package services

import (
	"context"

	"tutorlink-backend/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockBookingStore is a testify mock for BookingStore.
type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) GetByPair(ctx context.Context, tutorID, tuteeID string) (*models.Booking, error) {
	args := m.Called(ctx, tutorID, tuteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) Insert(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingStore) UpdateIntervals(ctx context.Context, tutorID, tuteeID string, intervals []models.BookingInterval, expectedVersion int64) error {
	args := m.Called(ctx, tutorID, tuteeID, intervals, expectedVersion)
	return args.Error(0)
}

// MockFileStore is a testify mock for FileStore.
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Create(ctx context.Context, file *models.SharedFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileStore) GetByID(ctx context.Context, id string) (*models.SharedFile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SharedFile), args.Error(1)
}

func (m *MockFileStore) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*models.SharedFile, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.SharedFile), args.Int(1), args.Error(2)
}

func (m *MockFileStore) ListForPair(ctx context.Context, userID, counterpartID string, limit int) ([]*models.SharedFile, error) {
	args := m.Called(ctx, userID, counterpartID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SharedFile), args.Error(1)
}

// MockUserStore is a testify mock for UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) UpdateMyTutors(ctx context.Context, userID string, tutors []models.TutorRef) error {
	args := m.Called(ctx, userID, tutors)
	return args.Error(0)
}

func (m *MockUserStore) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	args := m.Called(ctx, userID, pushToken)
	return args.Error(0)
}

// MockTutorStore is a testify mock for TutorStore.
type MockTutorStore struct {
	mock.Mock
}

func (m *MockTutorStore) Create(ctx context.Context, tutor *models.Tutor) error {
	args := m.Called(ctx, tutor)
	return args.Error(0)
}

func (m *MockTutorStore) GetByID(ctx context.Context, id string) (*models.Tutor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tutor), args.Error(1)
}

func (m *MockTutorStore) UpdateOnboarding(ctx context.Context, tutorID string, photoURL, website *string, onboarded bool) error {
	args := m.Called(ctx, tutorID, photoURL, website, onboarded)
	return args.Error(0)
}

func (m *MockTutorStore) UpdateTutees(ctx context.Context, tutorID string, tutees []models.TuteeSummary) error {
	args := m.Called(ctx, tutorID, tutees)
	return args.Error(0)
}

func (m *MockTutorStore) UpdatePushToken(ctx context.Context, tutorID string, pushToken *string) error {
	args := m.Called(ctx, tutorID, pushToken)
	return args.Error(0)
}
