package app

import (
	"context"
	"time"

	"github.com/saltline/sendwave/internal/domain"
	"github.com/saltline/sendwave/internal/ports"
)

// DefaultMaxRetries is the number of additional attempts after the first
// when none is configured.
const DefaultMaxRetries = 2

// Attempter performs one message delivery: it drives a single send through
// the retry state machine (Pending, Sending, RetryWait, Success,
// TerminalFailure) and resolves to a domain.AttemptResult.
type Attempter struct {
	sender      ports.TemplateSender
	maxRetries  int
	backoffBase time.Duration
	log         ports.Logger

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewAttempter creates a delivery attempt machine. A negative maxRetries
// means DefaultMaxRetries (zero disables retries); backoffBase <= 0 means
// DefaultBackoffBase.
func NewAttempter(sender ports.TemplateSender, maxRetries int, backoffBase time.Duration, log ports.Logger) *Attempter {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Attempter{
		sender:      sender,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		log:         log,
		sleep:       time.Sleep,
	}
}

// Attempt delivers msg, retrying retryable failures with exponential
// backoff (base * 2^(n-1) before the n-th retry) up to the configured
// number of additional attempts. A non-retryable classification resolves
// to a terminal failure immediately.
func (a *Attempter) Attempt(ctx context.Context, msg ports.TemplateMessage) domain.AttemptResult {
	wait := newBackoff(a.backoffBase)

	var lastErr error
	var lastCode int

	for attempt := 1; ; attempt++ {
		receipt, err := a.sender.Send(ctx, msg)
		if err == nil {
			return domain.AttemptResult{
				Outcome:   domain.OutcomeSuccess,
				MessageID: receipt.MessageID,
				HTTPCode:  receipt.HTTPCode,
				Attempts:  attempt,
			}
		}

		lastErr = err
		lastCode = receipt.HTTPCode
		retryable := Retryable(err, receipt.HTTPCode)

		a.log.Warn("send attempt failed",
			ports.String("to", domain.MaskPhone(msg.To)),
			ports.Int("attempt", attempt),
			ports.Bool("retryable", retryable),
			ports.Err(err),
		)

		if !retryable {
			return domain.AttemptResult{
				Outcome:  domain.OutcomeFailed,
				HTTPCode: lastCode,
				Err:      lastErr,
				Attempts: attempt,
			}
		}
		if attempt > a.maxRetries {
			a.log.Error("retries exhausted",
				ports.String("to", domain.MaskPhone(msg.To)),
				ports.Int("attempts", attempt),
			)
			return domain.AttemptResult{
				Outcome:   domain.OutcomeFailed,
				HTTPCode:  lastCode,
				Err:       lastErr,
				Attempts:  attempt,
				Retryable: true,
			}
		}

		d := wait.Next()
		a.log.Info("retrying send",
			ports.String("to", domain.MaskPhone(msg.To)),
			ports.Int("next_attempt", attempt+1),
			ports.Duration("wait", d),
		)
		a.sleep(d)
	}
}
