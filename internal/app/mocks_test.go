package app

import (
	"context"
	"time"

	"github.com/saltline/sendwave/internal/domain"
	"github.com/saltline/sendwave/internal/ports"
)

// mockLogger implements ports.Logger for testing.
type mockLogger struct{}

func (mockLogger) Debug(msg string, fields ...ports.Field) {}
func (mockLogger) Info(msg string, fields ...ports.Field)  {}
func (mockLogger) Warn(msg string, fields ...ports.Field)  {}
func (mockLogger) Error(msg string, fields ...ports.Field) {}

// mockDirectory serves canned contact pages.
type mockDirectory struct {
	pages    [][]ports.Contact
	pageSize int
	fetchErr error

	calls []int // offsets requested
}

func (m *mockDirectory) FetchPage(ctx context.Context, offset, limit int, listID int64) (ports.ContactPage, error) {
	m.calls = append(m.calls, offset)
	if m.fetchErr != nil {
		return ports.ContactPage{}, m.fetchErr
	}
	idx := 0
	if m.pageSize > 0 {
		idx = offset / m.pageSize
	}
	if idx >= len(m.pages) {
		return ports.ContactPage{}, nil
	}
	return ports.ContactPage{Contacts: m.pages[idx]}, nil
}

func (m *mockDirectory) Folders(ctx context.Context) ([]ports.Folder, error) {
	return nil, nil
}

func (m *mockDirectory) ListsInFolder(ctx context.Context, folderID int64) (map[string]int64, error) {
	return nil, nil
}

func (m *mockDirectory) Ping(ctx context.Context) error { return nil }

// mockLedger is an in-memory ports.Ledger.
type mockLedger struct {
	records   map[string]domain.SendRecord
	upsertErr error
	lookupErr error
}

func newMockLedger() *mockLedger {
	return &mockLedger{records: make(map[string]domain.SendRecord)}
}

func (m *mockLedger) key(phone string, key domain.CampaignKey) string {
	return phone + "|" + key.String()
}

func (m *mockLedger) Upsert(ctx context.Context, rec domain.SendRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.records[m.key(rec.Phone, rec.Key)] = rec
	return nil
}

func (m *mockLedger) HasSuccess(ctx context.Context, phone string, key domain.CampaignKey) (bool, error) {
	if m.lookupErr != nil {
		return false, m.lookupErr
	}
	rec, ok := m.records[m.key(phone, key)]
	return ok && rec.Outcome == domain.OutcomeSuccess, nil
}

func (m *mockLedger) RecentOutcomes(ctx context.Context, since time.Time) (ports.LedgerCounts, error) {
	return ports.LedgerCounts{}, nil
}

func (m *mockLedger) Close() error { return nil }

// mockSender scripts per-call outcomes for the attempt machine.
type mockSender struct {
	// outcomes are consumed one per Send call; the last entry repeats.
	outcomes []sendOutcome
	calls    int
	sent     []ports.TemplateMessage
}

type sendOutcome struct {
	receipt ports.SendReceipt
	err     error
}

func (m *mockSender) Send(ctx context.Context, msg ports.TemplateMessage) (ports.SendReceipt, error) {
	m.sent = append(m.sent, msg)
	idx := m.calls
	if idx >= len(m.outcomes) {
		idx = len(m.outcomes) - 1
	}
	m.calls++
	out := m.outcomes[idx]
	return out.receipt, out.err
}

func (m *mockSender) Verify(ctx context.Context) error { return nil }

// mockReporter collects result records.
type mockReporter struct {
	results   []ports.Result
	appendErr error
}

func (m *mockReporter) Append(ctx context.Context, r ports.Result) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.results = append(m.results, r)
	return nil
}

func (m *mockReporter) Summary(ctx context.Context, day time.Time) (ports.DailySummary, error) {
	return ports.DailySummary{}, nil
}
