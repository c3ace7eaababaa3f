package domain

import (
	"regexp"
	"strings"
)

// Status is the user-facing state of a shipment.
type Status string

const (
	// StatusSentToGeorgia marks a parcel that left the origin warehouse.
	StatusSentToGeorgia Status = "Sent to Georgia"
	// StatusNotArrived marks a parcel announced but not yet received at origin.
	StatusNotArrived Status = "Not Arrived"
	// StatusInWarehouse marks a parcel waiting at the destination warehouse.
	StatusInWarehouse Status = "In Warehouse"
	// StatusProcessing marks a parcel known to customs.
	StatusProcessing Status = "Processing"
	// StatusError marks a parcel whose customs lookup failed.
	StatusError Status = "Error"
)

// Category is one of the portal's shipment listings.
type Category string

const (
	CategoryInTransit Category = "in_transit"
	CategoryExpected  Category = "expected"
	CategoryWarehouse Category = "warehouse"
)

// Categories returns every category in merge order.
func Categories() []Category {
	return []Category{CategoryInTransit, CategoryExpected, CategoryWarehouse}
}

// DefaultStatus is the status given to every record extracted from the category.
func (c Category) DefaultStatus() Status {
	switch c {
	case CategoryInTransit:
		return StatusSentToGeorgia
	case CategoryExpected:
		return StatusNotArrived
	case CategoryWarehouse:
		return StatusInWarehouse
	default:
		return ""
	}
}

// DefaultPackageName is used when the detail overlay has no description.
const DefaultPackageName = "Parcel"

var (
	trackingCodePattern = regexp.MustCompile(`^[A-Z0-9]{6,}$`)
	arrivalPattern      = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{2}[./-]\d{2}[./-]\d{4})\b`)
)

// IsValidTrackingCode reports whether code is a well-formed tracking code.
func IsValidTrackingCode(code string) bool {
	return trackingCodePattern.MatchString(code)
}

// FindArrival returns the first date-like substring of text, or nil.
// It is a heuristic: any date printed in a row wins, not necessarily the arrival date.
func FindArrival(text string) *string {
	m := arrivalPattern.FindString(text)
	if m == "" {
		return nil
	}
	return &m
}

// ShipmentRecord is one shipment as returned to the caller.
type ShipmentRecord struct {
	// TrackingCode identifies the parcel. It never changes after extraction.
	TrackingCode string `json:"trackingCode"`
	// PackageName is the description read from the detail overlay.
	PackageName string `json:"packageName"`
	// Status is the current shipment status.
	Status Status `json:"status"`
	// EstimatedArrival is the first date found in the listing row, if any.
	EstimatedArrival *string `json:"estimatedArrival"`
	// CustomsFields holds the customs portal's fields once the parcel is processing.
	CustomsFields map[string]string `json:"customsFields,omitempty"`
	// Details carries the failure message when Status is StatusError.
	Details string `json:"details,omitempty"`
}

// Credentials are the account portal login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" || strings.TrimSpace(c.Password) == "" {
		return ErrMissingCredentials
	}
	return nil
}
