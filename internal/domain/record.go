package domain

import "time"

// Outcome is the terminal result of a delivery attempt.
type Outcome string

const (
	// OutcomeSuccess means the provider accepted the message.
	OutcomeSuccess Outcome = "success"

	// OutcomeFailed means the attempt resolved to a terminal failure,
	// including exhausted retries.
	OutcomeFailed Outcome = "failed"
)

// SendRecord is the durable outcome of one delivery attempt, keyed by
// (Phone, Key). New writes replace prior ones, so a failed send that later
// succeeds flips the ledger state.
type SendRecord struct {
	Phone           string
	Key             CampaignKey
	ExperienceLevel string
	ListID          int64
	SentAt          time.Time
	Outcome         Outcome

	// ProviderMessageID is the provider-assigned message id on success.
	ProviderMessageID string

	// ErrorDetail carries the last error text on failure.
	ErrorDetail string
}

// AttemptResult is the resolved outcome of the delivery attempt machine.
type AttemptResult struct {
	Outcome Outcome

	// MessageID is the provider message id, set on success.
	MessageID string

	// HTTPCode is the last HTTP status observed, 0 if the call never
	// reached the provider.
	HTTPCode int

	// Err is the last error, set on failure.
	Err error

	// Attempts is the total number of provider calls made, including the
	// first one.
	Attempts int

	// Retryable reports how the last error was classified. It is false on
	// success and after a non-retryable failure.
	Retryable bool
}
