package ports

import (
	"context"
	"time"

	"github.com/saltline/sendwave/internal/domain"
)

// LedgerCounts aggregates outcomes over a window, for summaries.
type LedgerCounts struct {
	Success int64
	Failed  int64
}

// Ledger is the durable send history, the source of truth for cross-run
// deduplication and the audit trail of past outcomes.
//
// Records are keyed by (phone, campaign key); Upsert replaces any prior
// record for the same key (last-write-wins), so re-running a failed send
// and later succeeding flips the ledger state.
type Ledger interface {
	// Upsert writes or replaces the record for (rec.Phone, rec.Key).
	// A write failure must not crash the run; callers log it as a
	// data-durability warning and continue.
	Upsert(ctx context.Context, rec domain.SendRecord) error

	// HasSuccess reports whether a success record exists for the phone
	// under the given campaign key.
	HasSuccess(ctx context.Context, phone string, key domain.CampaignKey) (bool, error)

	// RecentOutcomes counts outcomes recorded since the given time.
	RecentOutcomes(ctx context.Context, since time.Time) (LedgerCounts, error)

	// Close releases the underlying store.
	Close() error
}
