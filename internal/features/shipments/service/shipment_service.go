package service

import (
	"context"
	"errors"
	"fmt"

	"shipment-tracker/internal/core/logger"
	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"go.uber.org/zap"
)

// ShipmentService builds an account's merged shipment list.
type ShipmentService struct {
	sessions ports.SessionOpener
	lookup   ports.StatusLookup
	logger   *zap.Logger
}

// NewShipmentService creates a new ShipmentService.
func NewShipmentService(sessions ports.SessionOpener, lookup ports.StatusLookup) *ShipmentService {
	return &ShipmentService{
		sessions: sessions,
		lookup:   lookup,
		logger:   logger.Named("shipments"),
	}
}

// GetShipments logs in with creds, extracts every category and correlates the
// in-transit records with customs.
//
// It returns domain.ErrMissingCredentials or domain.ErrInvalidCredentials for bad
// input. A listing that fails to load contributes no records.
func (s *ShipmentService) GetShipments(ctx context.Context, creds domain.Credentials) ([]domain.ShipmentRecord, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	session, err := s.sessions.Open(ctx, creds)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open portal session: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.logger.Warn("Failed to close portal session", zap.Error(err))
		}
	}()

	listings := make(map[domain.Category][]domain.ShipmentRecord, len(domain.Categories()))
	for _, category := range domain.Categories() {
		records, err := session.ExtractListing(ctx, category)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("shipment extraction aborted: %w", ctx.Err())
			}
			s.logger.Warn("Listing extraction failed",
				zap.String("category", string(category)),
				zap.Error(err),
			)
			continue
		}
		listings[category] = records
	}

	// The browser is no longer needed once the listings are read.
	if err := session.Close(); err != nil {
		s.logger.Warn("Failed to close portal session", zap.Error(err))
	}

	result := Correlate(ctx, s.lookup,
		listings[domain.CategoryInTransit],
		listings[domain.CategoryExpected],
		listings[domain.CategoryWarehouse],
	)

	s.logger.Info("Shipments resolved",
		zap.Int("in_transit", len(listings[domain.CategoryInTransit])),
		zap.Int("expected", len(listings[domain.CategoryExpected])),
		zap.Int("warehouse", len(listings[domain.CategoryWarehouse])),
	)
	return result, nil
}
