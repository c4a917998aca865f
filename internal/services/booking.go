package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tutorlink-backend/internal/errdefs"
	"tutorlink-backend/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	// Bounded retries for the read-append-write cycle on the pair record.
	// The version token detects a concurrent append; after this many
	// conflicts the create is reported as failed rather than retried
	// forever.
	createAttempts = 3
)

// BookingStore is the persistence contract for per-pair booking records
type BookingStore interface {
	GetByPair(ctx context.Context, tutorID, tuteeID string) (*models.Booking, error)
	Insert(ctx context.Context, booking *models.Booking) error
	UpdateIntervals(ctx context.Context, tutorID, tuteeID string, intervals []models.BookingInterval, expectedVersion int64) error
}

// BookingService manages the booking calendar for tutor/tutee pairs
type BookingService struct {
	bookings BookingStore
}

// NewBookingService creates a new booking service
func NewBookingService(bookings BookingStore) *BookingService {
	return &BookingService{bookings: bookings}
}

// LoadBookings returns the pair's intervals keyed by ISO date (the start
// day). A pair with no booking record yet is an expected empty state and
// yields an empty map; transport failures propagate to the caller.
func (s *BookingService) LoadBookings(ctx context.Context, tutorID, tuteeID string) (map[string]models.BookingInterval, error) {
	byDate := make(map[string]models.BookingInterval)

	booking, err := s.bookings.GetByPair(ctx, tutorID, tuteeID)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return byDate, nil
		}
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	for _, interval := range booking.Intervals {
		byDate[interval.StartsAt.UTC().Format(dateLayout)] = interval
	}
	return byDate, nil
}

// CreateBooking combines the selected date with the HH:MM start and end
// times and appends the resulting interval to the pair's record, creating
// the record if the pair has none yet. Duplicate and overlapping intervals
// are accepted as-is.
func (s *BookingService) CreateBooking(ctx context.Context, tutorID, tuteeID, date, startTime, endTime string) (*models.BookingInterval, error) {
	interval, err := buildInterval(date, startTime, endTime)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		booking, err := s.bookings.GetByPair(ctx, tutorID, tuteeID)
		if err != nil {
			if errors.Is(err, errdefs.ErrNotFound) {
				fresh := &models.Booking{
					TutorID:   tutorID,
					TuteeID:   tuteeID,
					Intervals: []models.BookingInterval{*interval},
				}
				if err := s.bookings.Insert(ctx, fresh); err != nil {
					if errors.Is(err, errdefs.ErrConflict) {
						// Another writer created the record first; reload and append.
						continue
					}
					return nil, fmt.Errorf("failed to create booking record: %w", err)
				}
				return interval, nil
			}
			return nil, fmt.Errorf("failed to load booking record: %w", err)
		}

		intervals := append(booking.Intervals, *interval)
		if err := s.bookings.UpdateIntervals(ctx, tutorID, tuteeID, intervals, booking.Version); err != nil {
			if errors.Is(err, errdefs.ErrConflict) {
				log.Debug().
					Str("tutor_id", tutorID).
					Str("tutee_id", tuteeID).
					Int("attempt", attempt+1).
					Msg("Booking version conflict, retrying append")
				continue
			}
			return nil, fmt.Errorf("failed to append interval: %w", err)
		}
		return interval, nil
	}

	return nil, fmt.Errorf("booking record kept changing underneath: %w", errdefs.ErrConflict)
}

func buildInterval(date, startTime, endTime string) (*models.BookingInterval, error) {
	if startTime == "" || endTime == "" {
		return nil, fmt.Errorf("start and end times are required: %w", errdefs.ErrValidation)
	}

	day, err := time.ParseInLocation(dateLayout, date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, errdefs.ErrValidation)
	}
	start, err := time.ParseInLocation(timeLayout, startTime, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", startTime, errdefs.ErrValidation)
	}
	end, err := time.ParseInLocation(timeLayout, endTime, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q: %w", endTime, errdefs.ErrValidation)
	}

	startsAt := day.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute)
	endsAt := day.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute)

	if !startsAt.Before(endsAt) {
		return nil, fmt.Errorf("start time must be before end time: %w", errdefs.ErrValidation)
	}

	return &models.BookingInterval{StartsAt: startsAt, EndsAt: endsAt}, nil
}

// FormatClock renders a timestamp the way the calendar displays it,
// e.g. "2:30 PM"
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}
