package service

import (
	"context"
	"strings"

	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"golang.org/x/sync/errgroup"
)

// LookupService answers direct customs status queries.
type LookupService struct {
	lookup ports.StatusLookup
}

// NewLookupService creates a new LookupService.
func NewLookupService(lookup ports.StatusLookup) *LookupService {
	return &LookupService{lookup: lookup}
}

// LookupReport is the outcome of one code in a batch lookup.
type LookupReport struct {
	TrackingCode string               `json:"trackingCode"`
	Result       *domain.LookupResult `json:"result,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// Lookup resolves the customs status of code.
// Codes are trimmed and upper-cased; malformed codes return domain.ErrInvalidTrackingCode.
func (s *LookupService) Lookup(ctx context.Context, code string) (*domain.LookupResult, error) {
	code = normalizeCode(code)
	if !domain.IsValidTrackingCode(code) {
		return nil, domain.ErrInvalidTrackingCode
	}
	return s.lookup.Lookup(ctx, domain.LookupTask{TrackingCode: code})
}

// LookupAll resolves every code concurrently and reports them in input order.
func (s *LookupService) LookupAll(ctx context.Context, codes []string) []LookupReport {
	reports := make([]LookupReport, len(codes))

	var g errgroup.Group
	for i, code := range codes {
		reports[i].TrackingCode = normalizeCode(code)
		g.Go(func() error {
			result, err := s.Lookup(ctx, code)
			if err != nil {
				reports[i].Error = err.Error()
				return nil
			}
			reports[i].Result = result
			return nil
		})
	}
	_ = g.Wait()

	return reports
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
