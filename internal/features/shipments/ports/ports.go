package ports

import (
	"context"

	"shipment-tracker/internal/features/shipments/domain"
)

// SessionOpener authenticates against the account portal.
type SessionOpener interface {
	// Open logs in and returns a session owned by the caller.
	// It returns domain.ErrInvalidCredentials when the portal rejects the login.
	Open(ctx context.Context, creds domain.Credentials) (Session, error)
}

// Session is one authenticated portal login, used by a single request.
type Session interface {
	// ExtractListing returns the category's records in rendered order.
	ExtractListing(ctx context.Context, category domain.Category) ([]domain.ShipmentRecord, error)
	// Close releases the session's browser. It is safe to call more than once.
	Close() error
}

// StatusLookup resolves the customs status of one tracking code.
type StatusLookup interface {
	Lookup(ctx context.Context, task domain.LookupTask) (*domain.LookupResult, error)
}
