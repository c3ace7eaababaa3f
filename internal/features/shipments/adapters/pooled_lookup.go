package adapter

import (
	"context"

	"shipment-tracker/internal/core/workerpool"
	"shipment-tracker/internal/features/shipments/domain"
)

// customsFetcher runs one lookup attempt on a pooled tab.
type customsFetcher interface {
	FetchStatus(ctx context.Context, tab *CustomsTab, code string) (*domain.LookupResult, error)
}

// PooledLookup runs customs lookups on the shared tab pool.
type PooledLookup struct {
	pool    *workerpool.Pool[*CustomsTab]
	fetcher customsFetcher
}

// NewPooledLookup creates a new PooledLookup.
func NewPooledLookup(pool *workerpool.Pool[*CustomsTab], fetcher customsFetcher) *PooledLookup {
	return &PooledLookup{
		pool:    pool,
		fetcher: fetcher,
	}
}

// Lookup resolves task on a pooled tab, retried by the pool.
// A failure after every attempt is a *workerpool.TaskError.
func (l *PooledLookup) Lookup(ctx context.Context, task domain.LookupTask) (*domain.LookupResult, error) {
	var result *domain.LookupResult
	err := l.pool.Do(ctx, task.TrackingCode, func(ctx context.Context, tab *CustomsTab) error {
		r, err := l.fetcher.FetchStatus(ctx, tab, task.TrackingCode)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
