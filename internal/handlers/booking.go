package handlers

import (
	"encoding/json"
	"net/http"

	"tutorlink-backend/internal/middleware"
	"tutorlink-backend/internal/models"
	"tutorlink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// BookingHandler handles booking-calendar HTTP requests
type BookingHandler struct {
	bookingService *services.BookingService
	notifyService  *services.NotifyService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *services.BookingService, notifyService *services.NotifyService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		notifyService:  notifyService,
	}
}

// DayBooking is one marked calendar day in a bookings response
type DayBooking struct {
	StartsAt     string `json:"starts_at"`
	EndsAt       string `json:"ends_at"`
	StartDisplay string `json:"start_display"`
	EndDisplay   string `json:"end_display"`
}

// GetBookings handles GET /api/v1/tutors/{tutor_id}/bookings.
// The caller's own ID is the tutee side of the pair unless a tutee_id
// query parameter names one of the tutor's tutees (tutor view).
func (h *BookingHandler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)
	tutorID := chi.URLParam(r, "tutor_id")

	tuteeID := callerID
	if q := r.URL.Query().Get("tutee_id"); q != "" && callerID == tutorID {
		tuteeID = q
	}

	bookings, err := h.bookingService.LoadBookings(ctx, tutorID, tuteeID)
	if err != nil {
		log.Error().
			Err(err).
			Str("tutor_id", tutorID).
			Str("tutee_id", tuteeID).
			Msg("Failed to load bookings")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	marked := make(map[string]DayBooking, len(bookings))
	for date, interval := range bookings {
		marked[date] = dayBookingFrom(interval)
	}

	respondJSON(w, map[string]interface{}{"bookings": marked}, http.StatusOK)
}

// CreateBookingRequest is the body for POST /api/v1/tutors/{tutor_id}/bookings
type CreateBookingRequest struct {
	TuteeID   string `json:"tutee_id,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CreateBooking handles POST /api/v1/tutors/{tutor_id}/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	callerID := middleware.GetUserID(ctx)
	tutorID := chi.URLParam(r, "tutor_id")

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// A tutor books on behalf of one of their tutees; a tutee books
	// themselves.
	tuteeID := callerID
	if callerID == tutorID {
		if req.TuteeID == "" {
			respondError(w, "tutee_id is required", http.StatusBadRequest)
			return
		}
		tuteeID = req.TuteeID
	}

	interval, err := h.bookingService.CreateBooking(ctx, tutorID, tuteeID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		log.Error().
			Err(err).
			Str("tutor_id", tutorID).
			Str("tutee_id", tuteeID).
			Str("date", req.Date).
			Msg("Failed to create booking")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	recipientID := tuteeID
	if callerID != tutorID {
		recipientID = tutorID
	}
	h.notifyService.BookingCreated(ctx, recipientID, *interval)

	log.Info().
		Str("tutor_id", tutorID).
		Str("tutee_id", tuteeID).
		Str("date", req.Date).
		Msg("Booking created")
	respondJSON(w, dayBookingFrom(*interval), http.StatusCreated)
}

func dayBookingFrom(interval models.BookingInterval) DayBooking {
	return DayBooking{
		StartsAt:     interval.StartsAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		EndsAt:       interval.EndsAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		StartDisplay: services.FormatClock(interval.StartsAt),
		EndDisplay:   services.FormatClock(interval.EndsAt),
	}
}
