package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inkle/inkle-api/internal/models"
	"github.com/inkle/inkle-api/internal/repository"
	"github.com/inkle/inkle-api/pkg/cache"
	"github.com/inkle/inkle-api/pkg/logger"
)

const feedCacheKey = "activity:feed"

// FeedCache is the subset of the redis client the activity feed needs.
type FeedCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type ActivityService struct {
	db       *repository.Database
	cache    FeedCache
	limit    int
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewActivityService builds the recorder and feed reader. feedCache may be nil,
// in which case every read goes to the database.
func NewActivityService(db *repository.Database, feedCache FeedCache, limit int, cacheTTL time.Duration, logger *logger.Logger) *ActivityService {
	return &ActivityService{
		db:       db,
		cache:    feedCache,
		limit:    limit,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// record appends one activity through repos. It must only be called inside
// the transaction of the mutation being recorded.
func (s *ActivityService) record(ctx context.Context, repos *repository.Repositories, t models.ActivityType, text string) error {
	if err := repos.Activities.Create(ctx, &models.Activity{Type: t, Text: text}); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// invalidate drops the cached feed. Call it after the recording transaction
// has committed.
func (s *ActivityService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, feedCacheKey); err != nil {
		s.logger.WithError(err).Error("Failed to invalidate activity feed cache")
	}
}

// Feed returns the newest activities, at most the configured limit.
func (s *ActivityService) Feed(ctx context.Context) ([]*models.Activity, error) {
	if s.cache != nil {
		var cached []*models.Activity
		err := s.cache.GetJSON(ctx, feedCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.logger.WithError(err).Warn("Failed to read activity feed cache")
		}
	}

	activities, err := s.db.Repositories().Activities.Latest(ctx, s.limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, feedCacheKey, activities, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache activity feed")
		}
	}
	return activities, nil
}
