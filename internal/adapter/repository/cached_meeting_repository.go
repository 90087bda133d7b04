package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-steward/internal/domain/entities"
	"github.com/johnquangdev/meeting-steward/internal/domain/repositories"
	"github.com/johnquangdev/meeting-steward/internal/infrastructure/cache"
)

// CachedMeetingRepository is a read-through cache over the meeting
// repository. Cache faults degrade to the database, never to an error.
type CachedMeetingRepository struct {
	inner  repositories.MeetingRepository
	store  *cache.Store
	logger *zap.Logger
}

// NewCachedMeetingRepository wraps a repository with Redis caching.
func NewCachedMeetingRepository(inner repositories.MeetingRepository, store *cache.Store, logger *zap.Logger) *CachedMeetingRepository {
	return &CachedMeetingRepository{
		inner:  inner,
		store:  store,
		logger: logger,
	}
}

func cacheKey(id uuid.UUID) string {
	return "meeting:" + id.String()
}

// Save writes through to the database and refreshes the cached copy.
func (r *CachedMeetingRepository) Save(ctx context.Context, m *entities.Meeting) (uuid.UUID, error) {
	id, err := r.inner.Save(ctx, m)
	if err != nil {
		return uuid.Nil, err
	}

	if data, marshalErr := json.Marshal(m); marshalErr == nil {
		if cacheErr := r.store.Set(ctx, cacheKey(id), string(data)); cacheErr != nil {
			r.warn("cache set failed", cacheErr)
		}
	}
	return id, nil
}

// Get serves from the cache when possible and falls back to the database.
func (r *CachedMeetingRepository) Get(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	cached, ok, err := r.store.Get(ctx, cacheKey(id))
	if err != nil {
		r.warn("cache get failed", err)
	} else if ok {
		var m entities.Meeting
		if unmarshalErr := json.Unmarshal([]byte(cached), &m); unmarshalErr == nil {
			return &m, nil
		}
		// A corrupt entry is dropped so the next read repopulates it.
		if delErr := r.store.Delete(ctx, cacheKey(id)); delErr != nil {
			r.warn("cache delete failed", delErr)
		}
	}

	m, err := r.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, marshalErr := json.Marshal(m); marshalErr == nil {
		if cacheErr := r.store.Set(ctx, cacheKey(id), string(data)); cacheErr != nil {
			r.warn("cache set failed", cacheErr)
		}
	}
	return m, nil
}

// List always reads the database. Summaries are cheap and ordering must
// reflect the latest writes.
func (r *CachedMeetingRepository) List(ctx context.Context, limit int) ([]repositories.MeetingSummary, error) {
	return r.inner.List(ctx, limit)
}

func (r *CachedMeetingRepository) warn(msg string, err error) {
	if r.logger != nil {
		r.logger.Warn(msg, zap.Error(err))
	}
}
