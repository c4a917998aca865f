package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/middleware"
	"tutorlink-backend/internal/models"
	"tutorlink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// stubBookingStore serves a fixed record (or error) and accepts writes.
type stubBookingStore struct {
	booking *models.Booking
	getErr  error
}

func (s *stubBookingStore) GetByPair(ctx context.Context, tutorID, tuteeID string) (*models.Booking, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.booking, nil
}

func (s *stubBookingStore) Insert(ctx context.Context, booking *models.Booking) error {
	s.booking = booking
	return nil
}

func (s *stubBookingStore) UpdateIntervals(ctx context.Context, tutorID, tuteeID string, intervals []models.BookingInterval, expectedVersion int64) error {
	s.booking.Intervals = intervals
	return nil
}

type stubUserStore struct{}

func (s *stubUserStore) Create(ctx context.Context, user *models.User) error { return nil }
func (s *stubUserStore) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, fmt.Errorf("user: %w", errdefs.ErrNotFound)
}
func (s *stubUserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, fmt.Errorf("user: %w", errdefs.ErrNotFound)
}
func (s *stubUserStore) UpdateMyTutors(ctx context.Context, userID string, tutors []models.TutorRef) error {
	return nil
}
func (s *stubUserStore) UpdatePushToken(ctx context.Context, userID string, pushToken *string) error {
	return nil
}

type stubTutorStore struct{}

func (s *stubTutorStore) Create(ctx context.Context, tutor *models.Tutor) error { return nil }
func (s *stubTutorStore) GetByID(ctx context.Context, id string) (*models.Tutor, error) {
	return nil, fmt.Errorf("tutor: %w", errdefs.ErrNotFound)
}
func (s *stubTutorStore) UpdateOnboarding(ctx context.Context, tutorID string, photoURL, website *string, onboarded bool) error {
	return nil
}
func (s *stubTutorStore) UpdateTutees(ctx context.Context, tutorID string, tutees []models.TuteeSummary) error {
	return nil
}
func (s *stubTutorStore) UpdatePushToken(ctx context.Context, tutorID string, pushToken *string) error {
	return nil
}

func newBookingRouter(store services.BookingStore) http.Handler {
	bookingService := services.NewBookingService(store)
	notifyService := services.NewNotifyService(services.NewWSHub(), nil, &stubUserStore{}, &stubTutorStore{})
	handler := NewBookingHandler(bookingService, notifyService)

	r := chi.NewRouter()
	r.Get("/tutors/{tutor_id}/bookings", handler.GetBookings)
	r.Post("/tutors/{tutor_id}/bookings", handler.CreateBooking)
	return r
}

func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestGetBookings_EmptyCalendarForFreshPair(t *testing.T) {
	store := &stubBookingStore{getErr: fmt.Errorf("booking record: %w", errdefs.ErrNotFound)}
	router := newBookingRouter(store)

	req := asUser(httptest.NewRequest(http.MethodGet, "/tutors/tutor-1/bookings", nil), "tutee-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Bookings map[string]DayBooking `json:"bookings"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Bookings)
}

func TestGetBookings_MarksBookedDay(t *testing.T) {
	store := &stubBookingStore{booking: &models.Booking{
		TutorID: "tutor-1",
		TuteeID: "tutee-1",
		Intervals: []models.BookingInterval{{
			StartsAt: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC),
			EndsAt:   time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC),
		}},
		Version: 1,
	}}
	router := newBookingRouter(store)

	req := asUser(httptest.NewRequest(http.MethodGet, "/tutors/tutor-1/bookings", nil), "tutee-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Bookings map[string]DayBooking `json:"bookings"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	day, ok := body.Bookings["2025-03-10"]
	assert.True(t, ok)
	assert.Equal(t, "2:30 PM", day.StartDisplay)
	assert.Equal(t, "3:30 PM", day.EndDisplay)
}

func TestCreateBooking_MissingTimesRejected(t *testing.T) {
	store := &stubBookingStore{getErr: fmt.Errorf("booking record: %w", errdefs.ErrNotFound)}
	router := newBookingRouter(store)

	payload := `{"date":"2025-03-10","start_time":"","end_time":"15:30"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/tutors/tutor-1/bookings", strings.NewReader(payload)), "tutee-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, store.booking)
}

func TestCreateBooking_CreatesRecordForFreshPair(t *testing.T) {
	store := &stubBookingStore{getErr: fmt.Errorf("booking record: %w", errdefs.ErrNotFound)}
	router := newBookingRouter(store)

	payload := `{"date":"2025-03-10","start_time":"14:30","end_time":"15:30"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/tutors/tutor-1/bookings", strings.NewReader(payload)), "tutee-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var day DayBooking
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &day))
	assert.Equal(t, "2:30 PM", day.StartDisplay)
	assert.Equal(t, "3:30 PM", day.EndDisplay)

	assert.NotNil(t, store.booking)
	assert.Equal(t, "tutor-1", store.booking.TutorID)
	assert.Equal(t, "tutee-1", store.booking.TuteeID)
	assert.Len(t, store.booking.Intervals, 1)
}

func TestCreateBooking_TutorMustNameTutee(t *testing.T) {
	store := &stubBookingStore{getErr: fmt.Errorf("booking record: %w", errdefs.ErrNotFound)}
	router := newBookingRouter(store)

	payload := `{"date":"2025-03-10","start_time":"14:30","end_time":"15:30"}`
	req := asUser(httptest.NewRequest(http.MethodPost, "/tutors/tutor-1/bookings", strings.NewReader(payload)), "tutor-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
