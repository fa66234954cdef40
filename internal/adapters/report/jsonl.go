// Package report implements ports.ResultReporter as an append-only JSONL
// file plus a daily summary aggregation over it.
//
// Result records are the audit trail of every processed candidate; they are
// never consulted for send correctness (the ledger is).
package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/saltline/sendwave/internal/ports"
)

// JSONLReporter appends one JSON object per line to a results file.
type JSONLReporter struct {
	path string
	env  string
}

// NewJSONLReporter creates a reporter writing to path, stamping records
// with the given environment name.
func NewJSONLReporter(path, env string) *JSONLReporter {
	return &JSONLReporter{path: path, env: env}
}

// Append writes one result record.
func (r *JSONLReporter) Append(ctx context.Context, res ports.Result) error {
	if res.Timestamp.IsZero() {
		res.Timestamp = time.Now()
	}
	if res.Env == "" {
		res.Env = r.env
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer f.Close()

	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

// Summary aggregates the records for the given day (local date match).
// Malformed lines are skipped.
func (r *JSONLReporter) Summary(ctx context.Context, day time.Time) (ports.DailySummary, error) {
	summary := ports.DailySummary{
		Date:        day.Format("2006-01-02"),
		Env:         r.env,
		ErrorCodes:  map[string]int{},
		SkipReasons: map[string]int{},
	}

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return summary, nil
		}
		return summary, fmt.Errorf("report: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		var res ports.Result
		if err := json.Unmarshal(sc.Bytes(), &res); err != nil {
			continue
		}
		if res.Timestamp.Format("2006-01-02") != summary.Date {
			continue
		}

		summary.Selected++
		switch res.Status {
		case "success":
			summary.Sent++
		case "failed":
			summary.Failed++
			if res.HTTPCode != 0 {
				summary.ErrorCodes[fmt.Sprintf("%d", res.HTTPCode)]++
			}
		case "skipped":
			summary.Skipped++
			reason := res.Error
			if reason == "" {
				reason = "unknown reason"
			}
			summary.SkipReasons[reason]++
		}
	}
	if err := sc.Err(); err != nil {
		return summary, fmt.Errorf("report: scan: %w", err)
	}
	return summary, nil
}
