package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"tutorlink-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket event sent to a connected client
type WSMessage struct {
	Type     string      `json:"type"`
	Message  string      `json:"message,omitempty"`
	Progress *float64    `json:"progress,omitempty"`
	Data     interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections keyed by user ID
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a new WebSocket connection for a user, replacing any
// existing one
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, exists := h.connections[userID]; exists {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a WebSocket connection for a user
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[userID]; exists {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// IsOnline checks if a user has a live connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// SendUploadProgress pushes the transfer percentage of an in-flight
// file-share upload to the uploader
func (h *WSHub) SendUploadProgress(userID, filename string, pct float64) {
	message := WSMessage{
		Type:     "upload_progress",
		Message:  filename,
		Progress: &pct,
	}
	if err := h.SendToUser(userID, message); err != nil {
		log.Debug().Str("user_id", userID).Msg("Uploader not connected for progress updates")
	}
}

// NotifyBookingCreated tells the counterpart that a session was booked
func (h *WSHub) NotifyBookingCreated(recipientID string, interval models.BookingInterval) error {
	message := WSMessage{
		Type: "booking_created",
		Data: map[string]interface{}{
			"starts_at": interval.StartsAt,
			"ends_at":   interval.EndsAt,
		},
	}
	return h.SendToUser(recipientID, message)
}

// NotifyFileShared tells the counterpart that a file was shared with them
func (h *WSHub) NotifyFileShared(recipientID string, file *models.SharedFile) error {
	message := WSMessage{
		Type: "file_shared",
		Data: map[string]interface{}{
			"file_id":     file.ID,
			"file_url":    file.FileURL,
			"uploaded_by": file.UploadedBy,
			"uploaded_at": file.UploadedAt,
		},
	}
	return h.SendToUser(recipientID, message)
}
