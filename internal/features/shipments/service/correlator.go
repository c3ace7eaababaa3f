package service

import (
	"context"

	"shipment-tracker/internal/features/shipments/domain"
	"shipment-tracker/internal/features/shipments/ports"

	"golang.org/x/sync/errgroup"
)

// Correlate merges the three listings in order in-transit, expected, warehouse and
// resolves the customs status of every in-transit record concurrently.
//
// A record with customs data becomes StatusProcessing with its fields attached, a record
// without data is left unchanged, and a failed lookup becomes StatusError with the
// failure message in Details. The output keeps the merged input order.
func Correlate(ctx context.Context, lookup ports.StatusLookup, inTransit, expected, warehouse []domain.ShipmentRecord) []domain.ShipmentRecord {
	merged := make([]domain.ShipmentRecord, 0, len(inTransit)+len(expected)+len(warehouse))
	merged = append(merged, inTransit...)
	merged = append(merged, expected...)
	merged = append(merged, warehouse...)

	var g errgroup.Group
	for i := range merged {
		if merged[i].Status != domain.StatusSentToGeorgia {
			continue
		}
		g.Go(func() error {
			result, err := lookup.Lookup(ctx, domain.LookupTask{TrackingCode: merged[i].TrackingCode})
			applyLookup(&merged[i], result, err)
			return nil
		})
	}
	_ = g.Wait()

	return merged
}

func applyLookup(rec *domain.ShipmentRecord, result *domain.LookupResult, err error) {
	switch {
	case err != nil:
		rec.Status = domain.StatusError
		rec.Details = err.Error()
	case result != nil && result.HasData:
		rec.Status = domain.StatusProcessing
		rec.CustomsFields = result.Fields
	}
}
