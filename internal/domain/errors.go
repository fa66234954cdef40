package domain

import "errors"

// Domain errors represent error conditions in the sendwave domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrInvalidPhone is returned when a phone number does not normalize to
	// a 10-15 digit E.164 string.
	ErrInvalidPhone = errors.New("sendwave: invalid phone number")

	// ErrMissingCampaignID is returned when a send is requested without a
	// campaign identity.
	ErrMissingCampaignID = errors.New("sendwave: campaign id is required")

	// ErrConfirmRequired is returned when a live send is requested in a
	// production environment without explicit confirmation.
	ErrConfirmRequired = errors.New("sendwave: confirmation required in production")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("sendwave: invalid configuration")

	// ErrCircuitOpen indicates the consecutive-failure breaker tripped and
	// the remainder of the run was halted.
	ErrCircuitOpen = errors.New("sendwave: circuit breaker open")
)
