// Package app contains the campaign send engine: candidate eligibility
// resolution, send admission control, the delivery attempt machine and the
// orchestrator that drives one campaign run across target segments.
//
// The engine is strictly sequential: one candidate is fully processed
// (validate, rate-gate, send, record) before the next begins. Minimum-delay
// pacing and retry backoff are blocking waits on the single execution path,
// matching provider-side per-second rate limits.
package app
