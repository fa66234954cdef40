package app

import "time"

// DefaultBackoffBase is the base retry wait when none is configured.
const DefaultBackoffBase = 5 * time.Second

// backoff implements deterministic exponential backoff: the n-th retry
// waits base * 2^(n-1). No jitter; the schedule is part of the documented
// retry contract.
type backoff struct {
	base    time.Duration
	current time.Duration
}

// newBackoff creates a new backoff with the given base duration.
func newBackoff(base time.Duration) *backoff {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	return &backoff{base: base, current: base}
}

// Next returns the wait before the next retry and doubles the schedule.
func (b *backoff) Next() time.Duration {
	d := b.current
	b.current *= 2
	return d
}

// Reset restores the initial schedule.
func (b *backoff) Reset() {
	b.current = b.base
}
