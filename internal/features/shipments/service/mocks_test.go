package service

import (
	"context"

	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"github.com/stretchr/testify/mock"
)

// MockSessionOpener is a mock implementation of ports.SessionOpener.
type MockSessionOpener struct {
	mock.Mock
}

func (m *MockSessionOpener) Open(ctx context.Context, creds domain.Credentials) (ports.Session, error) {
	args := m.Called(ctx, creds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Session), args.Error(1)
}

// MockSession is a mock implementation of ports.Session.
type MockSession struct {
	mock.Mock
}

func (m *MockSession) ExtractListing(ctx context.Context, category domain.Category) ([]domain.ShipmentRecord, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShipmentRecord), args.Error(1)
}

func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockStatusLookup is a mock implementation of ports.StatusLookup.
type MockStatusLookup struct {
	mock.Mock
}

func (m *MockStatusLookup) Lookup(ctx context.Context, task domain.LookupTask) (*domain.LookupResult, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LookupResult), args.Error(1)
}

func task(code string) domain.LookupTask {
	return domain.LookupTask{TrackingCode: code}
}

func record(code string, status domain.Status) domain.ShipmentRecord {
	return domain.ShipmentRecord{TrackingCode: code, PackageName: domain.DefaultPackageName, Status: status}
}

func trackingCodes(records []domain.ShipmentRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.TrackingCode
	}
	return out
}
