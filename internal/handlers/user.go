package handlers

import (
	"encoding/json"
	"net/http"

	"tutorlink-backend/internal/middleware"
	"tutorlink-backend/internal/models"
	"tutorlink-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// SignUpRequest is the body for POST /api/v1/users
type SignUpRequest struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// SignUp handles POST /api/v1/users
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Role == "" {
		req.Role = models.RoleTutee
	}

	result, err := h.userService.SignUp(r.Context(), req.Name, req.Email, req.Role)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to sign up user")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	log.Info().Str("user_id", result.ID).Str("role", string(result.Role)).Msg("User signed up")
	respondJSON(w, result, http.StatusCreated)
}

// PushTokenRequest is the body for POST /api/v1/users/me/push-token
type PushTokenRequest struct {
	PushToken *string `json:"push_token"`
}

// SetPushToken handles POST /api/v1/users/me/push-token
func (h *UserHandler) SetPushToken(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req PushTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.SetPushToken(r.Context(), userID, req.PushToken); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to set push token")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
