package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shipment-tracker/internal/features/shipments/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCorrelate_MergesLookups(t *testing.T) {
	lookup := new(MockStatusLookup)
	lookup.On("Lookup", mock.Anything, task("AB12345")).Return(&domain.LookupResult{
		TrackingCode: "AB12345",
		HasData:      true,
		Status:       domain.StatusProcessing,
		Fields:       map[string]string{"STATUS": "Released"},
	}, nil).Once()
	lookup.On("Lookup", mock.Anything, task("XY99999")).Return(&domain.LookupResult{
		TrackingCode: "XY99999",
	}, nil).Once()
	lookup.On("Lookup", mock.Anything, task("CD67890")).Return(nil, errors.New("timeout")).Once()

	merged := Correlate(context.Background(), lookup,
		[]domain.ShipmentRecord{
			record("AB12345", domain.StatusSentToGeorgia),
			record("XY99999", domain.StatusSentToGeorgia),
			record("CD67890", domain.StatusSentToGeorgia),
		},
		[]domain.ShipmentRecord{record("EF24680", domain.StatusNotArrived)},
		[]domain.ShipmentRecord{record("GH13579", domain.StatusInWarehouse)},
	)

	require.Len(t, merged, 5)
	assert.Equal(t, []string{"AB12345", "XY99999", "CD67890", "EF24680", "GH13579"}, trackingCodes(merged))

	assert.Equal(t, domain.StatusProcessing, merged[0].Status)
	assert.Equal(t, map[string]string{"STATUS": "Released"}, merged[0].CustomsFields)

	assert.Equal(t, domain.StatusSentToGeorgia, merged[1].Status)
	assert.Empty(t, merged[1].CustomsFields)

	assert.Equal(t, domain.StatusError, merged[2].Status)
	assert.Equal(t, "timeout", merged[2].Details)

	assert.Equal(t, record("EF24680", domain.StatusNotArrived), merged[3])
	assert.Equal(t, record("GH13579", domain.StatusInWarehouse), merged[4])

	// Only in-transit records are looked up.
	lookup.AssertExpectations(t)
	lookup.AssertNumberOfCalls(t, "Lookup", 3)
}

func TestCorrelate_KeepsOrderWhenLookupsFinishOutOfOrder(t *testing.T) {
	codes := []string{"AA00001", "AA00002", "AA00003", "AA00004", "AA00005"}
	lookup := new(MockStatusLookup)
	var inTransit []domain.ShipmentRecord
	for i, code := range codes {
		// Earlier records answer later.
		delay := time.Duration(len(codes)-i) * 10 * time.Millisecond
		lookup.On("Lookup", mock.Anything, task(code)).
			After(delay).
			Return(&domain.LookupResult{TrackingCode: code, HasData: true, Status: domain.StatusProcessing}, nil)
		inTransit = append(inTransit, record(code, domain.StatusSentToGeorgia))
	}

	merged := Correlate(context.Background(), lookup, inTransit, nil, nil)

	assert.Equal(t, codes, trackingCodes(merged))
	for _, r := range merged {
		assert.Equal(t, domain.StatusProcessing, r.Status)
	}
}

// barrierLookup blocks every call until n calls are in flight at once.
type barrierLookup struct {
	n       int
	mu      sync.Mutex
	arrived int
	all     chan struct{}
}

func (b *barrierLookup) Lookup(ctx context.Context, task domain.LookupTask) (*domain.LookupResult, error) {
	b.mu.Lock()
	b.arrived++
	if b.arrived == b.n {
		close(b.all)
	}
	b.mu.Unlock()

	select {
	case <-b.all:
		return &domain.LookupResult{TrackingCode: task.TrackingCode}, nil
	case <-time.After(2 * time.Second):
		return nil, errors.New("lookups were not concurrent")
	}
}

func TestCorrelate_LooksUpConcurrently(t *testing.T) {
	lookup := &barrierLookup{n: 3, all: make(chan struct{})}

	merged := Correlate(context.Background(), lookup, []domain.ShipmentRecord{
		record("AA00001", domain.StatusSentToGeorgia),
		record("AA00002", domain.StatusSentToGeorgia),
		record("AA00003", domain.StatusSentToGeorgia),
	}, nil, nil)

	for _, r := range merged {
		assert.Equal(t, domain.StatusSentToGeorgia, r.Status)
		assert.Empty(t, r.Details)
	}
}

func TestCorrelate_Empty(t *testing.T) {
	lookup := new(MockStatusLookup)

	merged := Correlate(context.Background(), lookup, nil, nil, nil)

	assert.Empty(t, merged)
	lookup.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
}
