package handlers

import (
	"net/http"

	"tutorlink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ActivityHandler handles discovery-feed HTTP requests
type ActivityHandler struct {
	activityService *services.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activityService *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// List handles GET /api/v1/activities
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list activities")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, map[string]interface{}{"activities": activities}, http.StatusOK)
}

// Get handles GET /api/v1/activities/{activity_id}
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	activityID := chi.URLParam(r, "activity_id")

	activity, err := h.activityService.GetByID(r.Context(), activityID)
	if err != nil {
		log.Error().Err(err).Str("activity_id", activityID).Msg("Failed to get activity")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, activity, http.StatusOK)
}
