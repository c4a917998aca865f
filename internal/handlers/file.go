package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/middleware"
	"tutorlink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// User-facing upload failure messages, matching what the client shows.
const (
	msgFileTooLarge  = "File too large. Please select a file smaller than 5MB."
	msgRetryExceeded = "Max retry time exceeded. Please check your network connection and try again."
	msgUploadFailed  = "Error uploading the file. Please try again."
)

// FileHandler handles file-share HTTP requests
type FileHandler struct {
	uploadService *services.UploadService
	notifyService *services.NotifyService
	wsHub         *services.WSHub
}

// NewFileHandler creates a new file handler
func NewFileHandler(uploadService *services.UploadService, notifyService *services.NotifyService, wsHub *services.WSHub) *FileHandler {
	return &FileHandler{
		uploadService: uploadService,
		notifyService: notifyService,
		wsHub:         wsHub,
	}
}

// Upload handles POST /api/v1/files/upload (multipart/form-data with a
// "file" part and a "recipient_id" field). The size ceiling is checked
// before any byte is sent to the blob store; progress percentages stream
// to the uploader over their WebSocket connection.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	// Oversized requests are turned away before any parsing; the exact
	// per-file ceiling is enforced again in the service.
	if r.ContentLength > services.MaxFileBytes+1024*1024 {
		respondError(w, msgFileTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxFileBytes+1024*1024)

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	recipientID := r.FormValue("recipient_id")

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	filename := header.Filename
	shared, err := h.uploadService.Upload(ctx, services.UploadInput{
		UploaderID:  userID,
		RecipientID: recipientID,
		Filename:    filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
		Progress: func(pct float64) {
			h.wsHub.SendUploadProgress(userID, filename, pct)
		},
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("filename", filename).
			Msg("Failed to upload shared file")

		switch {
		case errors.Is(err, errdefs.ErrFileTooLarge):
			respondError(w, msgFileTooLarge, http.StatusRequestEntityTooLarge)
		case errors.Is(err, errdefs.ErrRetryLimitExceeded):
			respondError(w, msgRetryExceeded, http.StatusBadGateway)
		case errors.Is(err, errdefs.ErrValidation):
			respondError(w, err.Error(), http.StatusBadRequest)
		default:
			respondError(w, msgUploadFailed, http.StatusInternalServerError)
		}
		return
	}

	h.notifyService.FileShared(ctx, recipientID, shared)

	log.Info().
		Str("user_id", userID).
		Str("file_id", shared.ID).
		Str("shared_with", recipientID).
		Msg("File uploaded and shared")
	respondJSON(w, shared, http.StatusCreated)
}

// Get handles GET /api/v1/files/{file_id}
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	fileID := chi.URLParam(r, "file_id")

	file, err := h.uploadService.GetForUser(ctx, userID, fileID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("file_id", fileID).Msg("Failed to get shared file")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, file, http.StatusOK)
}

// List handles GET /api/v1/files
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	limit := 50
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil {
			offset = parsed
		}
	}

	files, total, err := h.uploadService.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list shared files")
		respondError(w, err.Error(), statusFromError(err))
		return
	}

	respondJSON(w, map[string]interface{}{
		"files": files,
		"total": total,
	}, http.StatusOK)
}
