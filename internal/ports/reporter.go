package ports

import (
	"context"
	"time"
)

// Result is one append-only audit record for a processed candidate.
// Phones are stored masked; results are not consulted for correctness.
type Result struct {
	Timestamp   time.Time `json:"timestamp"`
	RunID       string    `json:"run_id"`
	Env         string    `json:"env"`
	UserID      string    `json:"user_id"`
	MaskedPhone string    `json:"phone"`
	Status      string    `json:"status"` // success, failed, skipped
	Error       string    `json:"error,omitempty"`
	MessageID   string    `json:"message_id,omitempty"`
	HTTPCode    int       `json:"http_code,omitempty"`
	Template    string    `json:"template,omitempty"`
}

// DailySummary aggregates one day of result records.
type DailySummary struct {
	Date        string         `json:"date"`
	Env         string         `json:"env"`
	Selected    int            `json:"total_selected"`
	Sent        int            `json:"sent"`
	Failed      int            `json:"failed"`
	Skipped     int            `json:"skipped"`
	ErrorCodes  map[string]int `json:"error_codes,omitempty"`
	SkipReasons map[string]int `json:"skip_reasons,omitempty"`
}

// ResultReporter records send outcomes for audit and summary reporting.
type ResultReporter interface {
	// Append writes one result record. Failures are logged by callers and
	// never abort the run.
	Append(ctx context.Context, r Result) error

	// Summary aggregates the records for the given day.
	Summary(ctx context.Context, day time.Time) (DailySummary, error)
}
