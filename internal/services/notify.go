package services

import (
	"context"
	"errors"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// Pusher delivers a push notification to a device token
type Pusher interface {
	Alert(deviceToken, title, body string) error
}

// NotifyService fans notifications out to the counterpart of a booking or
// file share: over the live WebSocket when connected, and via push when a
// device token is on file. Delivery failures are logged, never propagated;
// notifications are best-effort.
type NotifyService struct {
	hub    *WSHub
	push   Pusher
	users  UserStore
	tutors TutorStore
}

// NewNotifyService creates a new notify service. push may be nil when
// push delivery is not configured.
func NewNotifyService(hub *WSHub, push Pusher, users UserStore, tutors TutorStore) *NotifyService {
	return &NotifyService{
		hub:    hub,
		push:   push,
		users:  users,
		tutors: tutors,
	}
}

// BookingCreated notifies the counterpart about a newly booked session
func (s *NotifyService) BookingCreated(ctx context.Context, recipientID string, interval models.BookingInterval) {
	if s.hub.IsOnline(recipientID) {
		if err := s.hub.NotifyBookingCreated(recipientID, interval); err != nil {
			log.Warn().Err(err).Str("recipient_id", recipientID).Msg("Failed to send booking event")
		}
		return
	}
	s.pushAlert(ctx, recipientID, "New booking",
		"A session was booked for "+interval.StartsAt.UTC().Format("2006-01-02")+" at "+FormatClock(interval.StartsAt))
}

// FileShared notifies the counterpart that a file was shared with them
func (s *NotifyService) FileShared(ctx context.Context, recipientID string, file *models.SharedFile) {
	if s.hub.IsOnline(recipientID) {
		if err := s.hub.NotifyFileShared(recipientID, file); err != nil {
			log.Warn().Err(err).Str("recipient_id", recipientID).Msg("Failed to send file event")
		}
		return
	}
	s.pushAlert(ctx, recipientID, "File shared", "A document was shared with you")
}

func (s *NotifyService) pushAlert(ctx context.Context, recipientID, title, body string) {
	if s.push == nil {
		return
	}

	token := s.pushTokenFor(ctx, recipientID)
	if token == nil || *token == "" {
		return
	}

	if err := s.push.Alert(*token, title, body); err != nil {
		log.Warn().Err(err).Str("recipient_id", recipientID).Msg("Failed to push notification")
	}
}

// pushTokenFor looks the recipient up on both sides of the tutor/tutee
// relationship; either record type can carry a device token.
func (s *NotifyService) pushTokenFor(ctx context.Context, id string) *string {
	if user, err := s.users.GetByID(ctx, id); err == nil {
		return user.PushToken
	} else if !errors.Is(err, errdefs.ErrNotFound) {
		log.Warn().Err(err).Str("recipient_id", id).Msg("Failed to look up push token")
		return nil
	}

	if tutor, err := s.tutors.GetByID(ctx, id); err == nil {
		return tutor.PushToken
	} else if !errors.Is(err, errdefs.ErrNotFound) {
		log.Warn().Err(err).Str("recipient_id", id).Msg("Failed to look up push token")
	}
	return nil
}
