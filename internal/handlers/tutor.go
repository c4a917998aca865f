package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/middleware"
	"tutorlink-backend/internal/models"
	"tutorlink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// TutorHandler handles tutor profile, onboarding and tutee-linking requests
type TutorHandler struct {
	tutorService   *services.TutorService
	userService    *services.UserService
	bookingService *services.BookingService
	uploadService  *services.UploadService
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(tutorService *services.TutorService, userService *services.UserService, bookingService *services.BookingService, uploadService *services.UploadService) *TutorHandler {
	return &TutorHandler{
		tutorService:   tutorService,
		userService:    userService,
		bookingService: bookingService,
		uploadService:  uploadService,
	}
}

// ProfileResponse composes the tutor detail view: header, contact
// affordances, the caller's subject with this tutor, their booking map and
// the files the pair has exchanged
type ProfileResponse struct {
	Tutor    *models.Tutor           `json:"tutor"`
	Subject  string                  `json:"subject,omitempty"`
	Contact  services.ContactActions `json:"contact"`
	Bookings map[string]DayBooking   `json:"bookings"`
	Files    []*models.SharedFile    `json:"files"`
}

// GetProfile handles GET /api/v1/tutors/{tutor_id}/profile
func (h *TutorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)
	tutorID := chi.URLParam(r, "tutor_id")

	tutor, err := h.tutorService.GetByID(ctx, tutorID)
	if err != nil {
		log.Error().Err(err).Str("tutor_id", tutorID).Msg("Failed to get tutor")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	// The caller's subject with this tutor, when the caller is a tutee
	// with the tutor on their list. Missing is an expected empty state.
	subject := ""
	if user, err := h.userService.GetByID(ctx, callerID); err == nil {
		for _, ref := range user.MyTutors {
			if ref.TutorID == tutorID {
				subject = ref.Subject
				break
			}
		}
	} else if !errors.Is(err, errdefs.ErrNotFound) {
		log.Warn().Err(err).Str("user_id", callerID).Msg("Failed to load caller record for profile")
	}

	bookings, err := h.bookingService.LoadBookings(ctx, tutorID, callerID)
	if err != nil {
		log.Error().
			Err(err).
			Str("tutor_id", tutorID).
			Str("tutee_id", callerID).
			Msg("Failed to load bookings for profile")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	marked := make(map[string]DayBooking, len(bookings))
	for date, interval := range bookings {
		marked[date] = dayBookingFrom(interval)
	}

	files, err := h.uploadService.ListForPair(ctx, callerID, tutorID, 0)
	if err != nil {
		log.Error().
			Err(err).
			Str("tutor_id", tutorID).
			Str("user_id", callerID).
			Msg("Failed to load shared files for profile")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, ProfileResponse{
		Tutor:    tutor,
		Subject:  subject,
		Contact:  services.ContactActionsFor(tutor),
		Bookings: marked,
		Files:    files,
	}, http.StatusOK)
}

// OnboardingRequest is the body for POST /api/v1/tutors/me/onboarding
type OnboardingRequest struct {
	PhotoURL *string `json:"photo_url"`
	Website  *string `json:"website"`
}

// CompleteOnboarding handles POST /api/v1/tutors/me/onboarding
func (h *TutorHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tutorID := middleware.GetUserID(ctx)

	var req OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.tutorService.CompleteOnboarding(ctx, tutorID, req.PhotoURL, req.Website); err != nil {
		log.Error().Err(err).Str("tutor_id", tutorID).Msg("Failed to complete onboarding")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	log.Info().Str("tutor_id", tutorID).Msg("Tutor onboarding completed")
	w.WriteHeader(http.StatusNoContent)
}

// LinkTuteeRequest is the body for POST /api/v1/tutors/me/tutees
type LinkTuteeRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

// LinkTutee handles POST /api/v1/tutors/me/tutees
func (h *TutorHandler) LinkTutee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tutorID := middleware.GetUserID(ctx)

	var req LinkTuteeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	summary, err := h.tutorService.LinkTutee(ctx, tutorID, req.Email, req.Subject)
	if err != nil {
		log.Error().
			Err(err).
			Str("tutor_id", tutorID).
			Str("email", req.Email).
			Msg("Failed to link tutee")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	log.Info().Str("tutor_id", tutorID).Str("tutee_id", summary.UserID).Msg("Tutee linked")
	respondJSON(w, summary, http.StatusCreated)
}
