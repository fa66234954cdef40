// Package sqlite implements ports.Ledger on an embedded SQLite database.
//
// The ledger is the durable dedup source: one row per (phone, campaign id,
// template), replaced on conflict so the latest outcome always wins.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/saltline/sendwave/internal/domain"
	"github.com/saltline/sendwave/internal/ports"
)

//go:embed migrations.sql
var migrationsFS embed.FS

// Ledger implements ports.Ledger using database/sql with the modernc
// sqlite driver.
type Ledger struct {
	db *sql.DB
}

// Open opens (creating if necessary) the ledger database at path and runs
// migrations.
func Open(path string) (*Ledger, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite: ledger path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")

	l := &Ledger{db: db}
	if err := l.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return l, nil
}

func (l *Ledger) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx, string(b))
	return err
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Upsert writes or replaces the record for (rec.Phone, rec.Key).
func (l *Ledger) Upsert(ctx context.Context, rec domain.SendRecord) error {
	if rec.SentAt.IsZero() {
		rec.SentAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO send_history
		   (phone, campaign_id, template, sent_at, status, message_id, error, experience, list_id)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.Phone, rec.Key.CampaignID, rec.Key.Template,
		rec.SentAt.UTC().Format(time.RFC3339Nano), string(rec.Outcome),
		nullStr(rec.ProviderMessageID), nullStr(rec.ErrorDetail),
		nullStr(rec.ExperienceLevel), rec.ListID,
	)
	return err
}

// HasSuccess reports whether a success record exists for the phone under
// the given campaign key.
func (l *Ledger) HasSuccess(ctx context.Context, phone string, key domain.CampaignKey) (bool, error) {
	var one int
	err := l.db.QueryRowContext(ctx,
		`SELECT 1 FROM send_history
		 WHERE phone = ? AND campaign_id = ? AND template = ? AND status = ?
		 LIMIT 1`,
		phone, key.CampaignID, key.Template, string(domain.OutcomeSuccess),
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// RecentOutcomes counts outcomes recorded since the given time.
func (l *Ledger) RecentOutcomes(ctx context.Context, since time.Time) (ports.LedgerCounts, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM send_history WHERE sent_at >= ? GROUP BY status`,
		since.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return ports.LedgerCounts{}, err
	}
	defer rows.Close()

	var counts ports.LedgerCounts
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return ports.LedgerCounts{}, err
		}
		switch domain.Outcome(status) {
		case domain.OutcomeSuccess:
			counts.Success = n
		case domain.OutcomeFailed:
			counts.Failed = n
		}
	}
	return counts, rows.Err()
}

func nullStr(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}
