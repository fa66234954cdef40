package app

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/saltline/sendwave/internal/ports"
)

// DefaultMaxConsecutiveFailures is the circuit breaker threshold when none
// is configured.
const DefaultMaxConsecutiveFailures = 3

// AdmissionConfig contains configuration for the admission controller.
type AdmissionConfig struct {
	// DailyLimit caps successful sends per run.
	DailyLimit int

	// MinInterval is the minimum delay between any two delivery attempts,
	// regardless of outcome.
	MinInterval time.Duration

	// MaxConsecutiveFailures trips the circuit breaker. Zero means
	// DefaultMaxConsecutiveFailures.
	MaxConsecutiveFailures int
}

// Admission gates each send against the daily cap, the per-run duplicate
// set, the minimum inter-send delay and the consecutive-failure circuit
// breaker.
//
// All state is per-run and in-memory; cross-run deduplication is the
// ledger's job. The engine is single-threaded, so no locking is needed.
type Admission struct {
	dailyLimit  int
	maxFailures int

	limiter *rate.Limiter

	sentCount           int
	sentIDs             map[string]struct{}
	consecutiveFailures int

	log ports.Logger
}

// NewAdmission creates an admission controller for one run.
func NewAdmission(cfg AdmissionConfig, log ports.Logger) *Admission {
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = DefaultMaxConsecutiveFailures
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	return &Admission{
		dailyLimit:  cfg.DailyLimit,
		maxFailures: cfg.MaxConsecutiveFailures,
		limiter:     rate.NewLimiter(limit, 1),
		sentIDs:     make(map[string]struct{}),
		log:         log,
	}
}

// CanSend reports whether a message may be sent to id. It is false once
// the daily cap is reached or when id was already sent in this run.
func (a *Admission) CanSend(id string) bool {
	if a.dailyLimit > 0 && a.sentCount >= a.dailyLimit {
		a.log.Warn("daily limit reached, stopping sends", ports.Int("limit", a.dailyLimit))
		return false
	}
	if _, ok := a.sentIDs[id]; ok {
		a.log.Debug("already sent in this run", ports.String("id", id))
		return false
	}
	return true
}

// WaitForSlot blocks until the minimum inter-send interval has elapsed
// since the last attempt. It returns early only when ctx is canceled.
func (a *Admission) WaitForSlot(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// RecordSuccess marks id as sent and resets the failure streak.
func (a *Admission) RecordSuccess(id string) {
	a.sentCount++
	a.sentIDs[id] = struct{}{}
	a.consecutiveFailures = 0
}

// RecordFailure extends the failure streak.
func (a *Admission) RecordFailure() {
	a.consecutiveFailures++
}

// ShouldStopDueToErrors reports whether the consecutive-failure breaker
// has tripped.
func (a *Admission) ShouldStopDueToErrors() bool {
	return a.consecutiveFailures >= a.maxFailures
}

// SentCount returns the number of successful sends so far.
func (a *Admission) SentCount() int {
	return a.sentCount
}

// ConsecutiveFailures returns the current failure streak.
func (a *Admission) ConsecutiveFailures() int {
	return a.consecutiveFailures
}

// AtDailyLimit reports whether the daily cap has been reached.
func (a *Admission) AtDailyLimit() bool {
	return a.dailyLimit > 0 && a.sentCount >= a.dailyLimit
}
