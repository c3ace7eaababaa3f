package adapter

import (
	"context"
	"errors"
	"time"

	"shipment-tracker/internal/core/cache"
	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"go.uber.org/zap"
)

const lookupKeyPrefix = "customs:"

// CachedLookup memoizes customs results that carry data.
// Parcels without customs data are always looked up again.
type CachedLookup struct {
	next   ports.StatusLookup
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedLookup wraps next with a cache whose entries live for ttl.
func NewCachedLookup(next ports.StatusLookup, c cache.Cache, ttl time.Duration) *CachedLookup {
	return &CachedLookup{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.Named("customs_cache"),
	}
}

// Lookup returns a cached result when present, otherwise delegates to the wrapped lookup.
// Cache failures never fail a lookup.
func (l *CachedLookup) Lookup(ctx context.Context, task domain.LookupTask) (*domain.LookupResult, error) {
	key := lookupKeyPrefix + task.TrackingCode

	var cached domain.LookupResult
	err := cache.GetJSON(ctx, l.cache, key, &cached)
	switch {
	case err == nil:
		l.logger.Debug("Cache hit", zap.String("tracking_code", task.TrackingCode))
		return &cached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		l.logger.Warn("Cache read failed", zap.String("tracking_code", task.TrackingCode), zap.Error(err))
	}

	result, err := l.next.Lookup(ctx, task)
	if err != nil {
		return nil, err
	}

	if result.HasData {
		if err := cache.SetJSON(ctx, l.cache, key, result, l.ttl); err != nil {
			l.logger.Warn("Cache write failed", zap.String("tracking_code", task.TrackingCode), zap.Error(err))
		}
	}
	return result, nil
}
