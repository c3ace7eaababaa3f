package domain

import "errors"

var (
	// ErrMissingCredentials is returned when email or password is empty.
	ErrMissingCredentials = errors.New("email and password are required")
	// ErrInvalidCredentials is returned when the portal rejects the login.
	ErrInvalidCredentials = errors.New("authentication failed")
	// ErrInvalidTrackingCode is returned for codes that cannot exist on the portal.
	ErrInvalidTrackingCode = errors.New("invalid tracking code")
)
