package app

import (
	"context"
	"testing"
	"time"

	"github.com/saltline/sendwave/internal/domain"
	"github.com/saltline/sendwave/internal/ports"
)

func newTestAttempter(sender *mockSender, maxRetries int, base time.Duration) (*Attempter, *[]time.Duration) {
	a := NewAttempter(sender, maxRetries, base, mockLogger{})
	var waits []time.Duration
	a.sleep = func(d time.Duration) { waits = append(waits, d) }
	return a, &waits
}

func TestAttempter_SuccessFirstTry(t *testing.T) {
	sender := &mockSender{outcomes: []sendOutcome{
		{receipt: ports.SendReceipt{MessageID: "wamid.1", HTTPCode: 200}},
	}}
	a, waits := newTestAttempter(sender, 2, time.Second)

	res := a.Attempt(context.Background(), ports.TemplateMessage{To: "15551234567"})

	if res.Outcome != domain.OutcomeSuccess {
		t.Fatalf("Outcome = %v", res.Outcome)
	}
	if res.MessageID != "wamid.1" || res.Attempts != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(*waits) != 0 {
		t.Errorf("waited %v, want no waits", *waits)
	}
}

func TestAttempter_NonRetryableFailsImmediately(t *testing.T) {
	sender := &mockSender{outcomes: []sendOutcome{
		{receipt: ports.SendReceipt{HTTPCode: 404}, err: &statusErr{code: 404}},
	}}
	a, waits := newTestAttempter(sender, 3, time.Second)

	res := a.Attempt(context.Background(), ports.TemplateMessage{To: "15551234567"})

	if res.Outcome != domain.OutcomeFailed {
		t.Fatalf("Outcome = %v", res.Outcome)
	}
	if res.Attempts != 1 || sender.calls != 1 {
		t.Errorf("attempts = %d, calls = %d, want 1/1", res.Attempts, sender.calls)
	}
	if res.Retryable {
		t.Error("Retryable = true for 404")
	}
	if len(*waits) != 0 {
		t.Errorf("waited %v, want none", *waits)
	}
	if res.HTTPCode != 404 {
		t.Errorf("HTTPCode = %d", res.HTTPCode)
	}
}

func TestAttempter_RetryableExactBackoffSchedule(t *testing.T) {
	sender := &mockSender{outcomes: []sendOutcome{
		{receipt: ports.SendReceipt{HTTPCode: 503}, err: &statusErr{code: 503}},
	}}
	a, waits := newTestAttempter(sender, 3, 5*time.Second)

	res := a.Attempt(context.Background(), ports.TemplateMessage{To: "15551234567"})

	if res.Outcome != domain.OutcomeFailed {
		t.Fatalf("Outcome = %v", res.Outcome)
	}
	// 1 initial attempt + 3 retries.
	if sender.calls != 4 {
		t.Errorf("calls = %d, want 4", sender.calls)
	}
	want := []time.Duration{5 * time.Second, 10 * time.Second, 20 * time.Second}
	if len(*waits) != len(want) {
		t.Fatalf("waits = %v, want %v", *waits, want)
	}
	for i := range want {
		if (*waits)[i] != want[i] {
			t.Errorf("wait[%d] = %v, want %v", i, (*waits)[i], want[i])
		}
	}
	if !res.Retryable {
		t.Error("Retryable = false after exhausted retries")
	}
}

func TestAttempter_RetryThenSuccess(t *testing.T) {
	sender := &mockSender{outcomes: []sendOutcome{
		{receipt: ports.SendReceipt{HTTPCode: 500}, err: &statusErr{code: 500}},
		{receipt: ports.SendReceipt{MessageID: "wamid.2", HTTPCode: 200}},
	}}
	a, waits := newTestAttempter(sender, 2, time.Second)

	res := a.Attempt(context.Background(), ports.TemplateMessage{To: "15551234567"})

	if res.Outcome != domain.OutcomeSuccess {
		t.Fatalf("Outcome = %v, err = %v", res.Outcome, res.Err)
	}
	if res.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", res.Attempts)
	}
	if len(*waits) != 1 || (*waits)[0] != time.Second {
		t.Errorf("waits = %v, want [1s]", *waits)
	}
}

func TestAttempter_ZeroRetriesDisablesRetrying(t *testing.T) {
	sender := &mockSender{outcomes: []sendOutcome{
		{receipt: ports.SendReceipt{HTTPCode: 503}, err: &statusErr{code: 503}},
	}}
	a, _ := newTestAttempter(sender, 0, time.Second)

	res := a.Attempt(context.Background(), ports.TemplateMessage{To: "15551234567"})
	if sender.calls != 1 {
		t.Errorf("calls = %d, want 1", sender.calls)
	}
	if res.Outcome != domain.OutcomeFailed {
		t.Errorf("Outcome = %v", res.Outcome)
	}
}

func TestBackoff_Schedule(t *testing.T) {
	b := newBackoff(2 * time.Second)
	for i, want := range []time.Duration{2 * time.Second, 4 * time.Second, 8 * time.Second} {
		if got := b.Next(); got != want {
			t.Errorf("Next()[%d] = %v, want %v", i, got, want)
		}
	}
	b.Reset()
	if got := b.Next(); got != 2*time.Second {
		t.Errorf("Next() after Reset = %v, want 2s", got)
	}
}
