package services

import (
	"context"
	"encoding/json"
	"time"

	"tutorlink-backend/internal/models"

	"github.com/rs/zerolog/log"
)

const (
	activityFeedKey = "activities:feed"
	activityFeedTTL = 5 * time.Minute
)

// ActivityStore is the read-only persistence contract for activities
type ActivityStore interface {
	List(ctx context.Context) ([]*models.Activity, error)
	GetByID(ctx context.Context, id string) (*models.Activity, error)
}

// Cache is a best-effort byte cache in front of the activity feed
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration)
}

// ActivityService serves the discovery feed, read-through cached
type ActivityService struct {
	activities ActivityStore
	cache      Cache
}

// NewActivityService creates a new activity service
func NewActivityService(activities ActivityStore, cache Cache) *ActivityService {
	return &ActivityService{activities: activities, cache: cache}
}

// List returns the activity feed, served from cache when fresh
func (s *ActivityService) List(ctx context.Context) ([]*models.Activity, error) {
	if s.cache != nil {
		if data, ok := s.cache.Get(ctx, activityFeedKey); ok {
			var cached []*models.Activity
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			log.Warn().Msg("Discarding unreadable cached activity feed")
		}
	}

	activities, err := s.activities.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(activities); err == nil {
			s.cache.Set(ctx, activityFeedKey, data, activityFeedTTL)
		}
	}

	return activities, nil
}

// GetByID retrieves one activity
func (s *ActivityService) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	return s.activities.GetByID(ctx, id)
}
